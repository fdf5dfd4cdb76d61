package tui

import (
	"strings"

	"github.com/storykeep/storykeep/internal/component"
	"github.com/storykeep/storykeep/internal/entity"
	"github.com/storykeep/storykeep/internal/repo"
	"github.com/storykeep/storykeep/internal/upgrade"
)

// The editor forms are still authored in the legacy spec shape and run
// through the upgrade pass at construction time. Kind-specific knowledge
// lives here: which classifier selects exist, which relationship fields a
// kind carries, and the classes on the save button.

// editorFormSpec builds the legacy form definition for a kind, pre-filled
// from an existing record when editing.
func editorFormSpec(r *repo.Repository, kind entity.Kind, existing entity.Record) upgrade.FormSpec {
	spec := upgrade.FormSpec{
		Name: "editor",
		Fields: []upgrade.FieldSpec{
			{Name: "name", Label: "Name", Required: true},
			{Name: "description", Kind: "textarea", Label: "Description", Rows: 3,
				Help: "A short summary shown in lists"},
		},
	}

	spec.Fields = append(spec.Fields, kindFieldSpecs(r, kind, existing)...)

	spec.Fields = append(spec.Fields,
		upgrade.FieldSpec{Name: "tags", Label: "Tags", Placeholder: "comma, separated",
			Help: "Freeform tags for filtering"},
		upgrade.FieldSpec{Name: "notes", Kind: "textarea", Label: "Notes", Rows: 8,
			Help: "Markdown; rendered on the detail screen"},
		upgrade.FieldSpec{Name: "save", Label: "Save", Class: "btn btn-primary"},
	)

	if existing != nil {
		fillFormValues(&spec, existing)
	}
	return spec
}

// kindFieldSpecs returns the classifier and relationship fields per kind.
func kindFieldSpecs(r *repo.Repository, kind entity.Kind, existing entity.Record) []upgrade.FieldSpec {
	excludeID := ""
	if existing != nil {
		excludeID = existing.Meta().ID
	}

	switch kind {
	case entity.KindCharacter:
		return []upgrade.FieldSpec{
			{Name: "role", Label: "Role", Options: stringOptions(entity.CharacterRoles)},
			{Name: "aliases", Label: "Aliases", Placeholder: "comma, separated"},
			{Name: "related", Label: "Related characters", Multiple: true,
				Options: recordOptions(r, entity.KindCharacter, excludeID)},
			{Name: "locations", Label: "Locations", Multiple: true,
				Options: recordOptions(r, entity.KindLocation, "")},
		}

	case entity.KindLocation:
		return []upgrade.FieldSpec{
			{Name: "category", Label: "Category", Options: stringOptions(entity.LocationCategories)},
		}

	case entity.KindPlot:
		return []upgrade.FieldSpec{
			{Name: "status", Label: "Status", Options: stringOptions(entity.PlotStatuses)},
			{Name: "characters", Label: "Characters", Multiple: true,
				Options: recordOptions(r, entity.KindCharacter, "")},
			{Name: "locations", Label: "Locations", Multiple: true,
				Options: recordOptions(r, entity.KindLocation, "")},
			{Name: "elements", Label: "World elements", Multiple: true,
				Options: recordOptions(r, entity.KindElement, "")},
		}

	case entity.KindElement:
		return []upgrade.FieldSpec{
			{Name: "category", Label: "Category", Options: stringOptions(entity.ElementCategories)},
			{Name: "characters", Label: "Characters", Multiple: true,
				Options: recordOptions(r, entity.KindCharacter, "")},
			{Name: "locations", Label: "Locations", Multiple: true,
				Options: recordOptions(r, entity.KindLocation, "")},
		}
	}
	return nil
}

// stringOptions turns classifier values into select options.
func stringOptions(values []string) []component.Option {
	out := make([]component.Option, len(values))
	for i, v := range values {
		out[i] = component.Option{Label: v, Value: v}
	}
	return out
}

// recordOptions lists sibling records as relationship options, excluding
// the record being edited so it cannot reference itself.
func recordOptions(r *repo.Repository, kind entity.Kind, excludeID string) []component.Option {
	records := r.List(kind)
	out := make([]component.Option, 0, len(records))
	for _, rec := range records {
		meta := rec.Meta()
		if meta.ID == excludeID {
			continue
		}
		out = append(out, component.Option{Label: meta.Name, Value: meta.ID})
	}
	return out
}

// fillFormValues seeds the legacy spec's initial values from a record.
func fillFormValues(spec *upgrade.FormSpec, rec entity.Record) {
	meta := rec.Meta()
	values := map[string]string{
		"name":        meta.Name,
		"description": meta.Description,
		"tags":        strings.Join(meta.Tags, ", "),
		"notes":       meta.Notes,
	}

	switch rec := rec.(type) {
	case *entity.Character:
		values["role"] = rec.Role
		values["aliases"] = strings.Join(rec.Aliases, ", ")
		values["related"] = strings.Join(rec.RelatedCharacterIDs, ",")
		values["locations"] = strings.Join(rec.LocationIDs, ",")
	case *entity.Location:
		values["category"] = rec.Category
	case *entity.Plot:
		values["status"] = rec.Status
		values["characters"] = strings.Join(rec.CharacterIDs, ",")
		values["locations"] = strings.Join(rec.LocationIDs, ",")
		values["elements"] = strings.Join(rec.ElementIDs, ",")
	case *entity.WorldElement:
		values["category"] = rec.Category
		values["characters"] = strings.Join(rec.CharacterIDs, ",")
		values["locations"] = strings.Join(rec.LocationIDs, ",")
	}

	for i := range spec.Fields {
		if v, ok := values[spec.Fields[i].Name]; ok {
			spec.Fields[i].Value = v
		}
	}
}

// applyFormValues writes the form's values back into a record.
func applyFormValues(rec entity.Record, values map[string]string) {
	meta := rec.Meta()
	meta.Name = strings.TrimSpace(values["name"])
	meta.Description = strings.TrimSpace(values["description"])
	meta.Notes = values["notes"]
	meta.Tags = splitList(values["tags"])

	switch rec := rec.(type) {
	case *entity.Character:
		rec.Role = values["role"]
		rec.Aliases = splitList(values["aliases"])
		rec.RelatedCharacterIDs = splitList(values["related"])
		rec.LocationIDs = splitList(values["locations"])
	case *entity.Location:
		rec.Category = values["category"]
	case *entity.Plot:
		rec.Status = values["status"]
		rec.CharacterIDs = splitList(values["characters"])
		rec.LocationIDs = splitList(values["locations"])
		rec.ElementIDs = splitList(values["elements"])
	case *entity.WorldElement:
		rec.Category = values["category"]
		rec.CharacterIDs = splitList(values["characters"])
		rec.LocationIDs = splitList(values["locations"])
	}
}

// splitList splits a comma-separated value, trimming blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
