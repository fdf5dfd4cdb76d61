//go:build ignore

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/store"
)

// Generates a large synthetic library for exercising the browse list,
// the preview server, and reload behavior under realistic record counts.
// For a small hand-written demo library use 'storykeep seed' instead.

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: seed_library <library.db> [records-per-kind]")
		fmt.Println("Example: seed_library /tmp/stress.db 200")
		os.Exit(1)
	}

	path := os.Args[1]
	perKind := 100
	if len(os.Args) >= 3 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Printf("Invalid record count: %s\n", os.Args[2])
			os.Exit(1)
		}
		perKind = n
	}

	st, err := store.OpenSQLite(path)
	if err != nil {
		fmt.Printf("Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	r, err := repo.Open(ctx, st)
	if err != nil {
		fmt.Printf("Error loading library: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(42))

	var locationIDs, characterIDs, elementIDs []string

	for i := 0; i < perKind; i++ {
		l := entity.NewLocation(fmt.Sprintf("Location %03d", i))
		l.Category = pick(rng, entity.LocationCategories)
		l.Description = fmt.Sprintf("Synthetic location number %d", i)
		if err := r.Add(ctx, l); err != nil {
			fail("location", err)
		}
		locationIDs = append(locationIDs, l.ID)
	}
	fmt.Printf("Created %d locations\n", perKind)

	for i := 0; i < perKind; i++ {
		c := entity.NewCharacter(fmt.Sprintf("Character %03d", i))
		c.Role = pick(rng, entity.CharacterRoles)
		c.Description = fmt.Sprintf("Synthetic character number %d", i)
		c.LocationIDs = sample(rng, locationIDs, 2)
		if len(characterIDs) > 0 {
			c.RelatedCharacterIDs = sample(rng, characterIDs, 1)
		}
		if err := r.Add(ctx, c); err != nil {
			fail("character", err)
		}
		characterIDs = append(characterIDs, c.ID)
	}
	fmt.Printf("Created %d characters\n", perKind)

	for i := 0; i < perKind; i++ {
		e := entity.NewWorldElement(fmt.Sprintf("Element %03d", i))
		e.Category = pick(rng, entity.ElementCategories)
		e.CharacterIDs = sample(rng, characterIDs, 2)
		e.LocationIDs = sample(rng, locationIDs, 1)
		if err := r.Add(ctx, e); err != nil {
			fail("element", err)
		}
		elementIDs = append(elementIDs, e.ID)
	}
	fmt.Printf("Created %d world elements\n", perKind)

	for i := 0; i < perKind; i++ {
		p := entity.NewPlot(fmt.Sprintf("Plot %03d", i))
		p.Status = pick(rng, entity.PlotStatuses)
		p.CharacterIDs = sample(rng, characterIDs, 3)
		p.LocationIDs = sample(rng, locationIDs, 2)
		p.ElementIDs = sample(rng, elementIDs, 1)
		if err := r.Add(ctx, p); err != nil {
			fail("plot", err)
		}
	}
	fmt.Printf("Created %d plots\n", perKind)

	fmt.Printf("\nDone: %d records in %s\n", perKind*4, path)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func sample(rng *rand.Rand, ids []string, n int) []string {
	if len(ids) == 0 {
		return nil
	}
	if n > len(ids) {
		n = len(ids)
	}
	seen := make(map[string]bool, n)
	var out []string
	for len(out) < n {
		id := ids[rng.Intn(len(ids))]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func fail(kind string, err error) {
	fmt.Printf("Error creating %s: %v\n", kind, err)
	os.Exit(1)
}
