// Package ui provides terminal UI components for the storykeep CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal
// output for non-interactive subcommands. Unlike the interactive TUI, these
// components follow a "run once and exit" pattern - they render output
// compellingly but don't require user interaction.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure boxes with styled information
//   - LogBox: Raw detail output box for verbose mode
//
// These components are orchestrated by the Runner, which manages the
// header → progress → result flow for multi-step command execution.
//
// # Usage Pattern
//
// Subcommands use this package by:
//
//  1. Creating a Runner with command metadata
//  2. Calling Run() with their operation function
//  3. The operation reports progress via a step callback
//  4. Runner handles all UI rendering automatically
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Demo Library Seed",
//	    Command:    "storykeep seed",
//	    Params:     map[string]string{"Library": dbPath},
//	    TotalSteps: 5,
//	    Verbose:    verbose,
//	})
//
//	err := runner.Run(ctx, func(onStep ui.StepCallback) error {
//	    onStep(1, "Opening library", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "Opening library", ui.StepComplete, "")
//	    return nil
//	})
//
// # Logging Integration
//
// This package expects logging to be controlled via the STORYKEEP_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly. Set STORYKEEP_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
//
// # Verbose Mode
//
// When --verbose is passed to a subcommand, the LogBox component displays
// the command's detail log in a styled box after the result. This is useful
// for seeing exactly which records an operation touched.
package ui
