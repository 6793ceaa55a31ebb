package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"modsync/core/apperr"
	"modsync/core/gate"

	"github.com/buger/goterm"
	"github.com/mitchellh/go-homedir"
)

// Action is one top-level operation selectable by flag or menu.
type Action int

const (
	ActionUpdateMods Action = iota
	ActionUpdateShaders
	ActionZipMods
	ActionDownloadLoader
	ActionClearCache
)

// allActions lists the actions in execution and menu order.
var allActions = []Action{
	ActionUpdateMods,
	ActionUpdateShaders,
	ActionZipMods,
	ActionDownloadLoader,
	ActionClearCache,
}

// Flag returns the long flag spelling.
func (a Action) Flag() string {
	switch a {
	case ActionUpdateMods:
		return "update-mods"
	case ActionUpdateShaders:
		return "update-shaders"
	case ActionZipMods:
		return "zip-mods"
	case ActionDownloadLoader:
		return "download-loader"
	case ActionClearCache:
		return "clear-cache"
	}
	return ""
}

// Label returns the menu text.
func (a Action) Label() string {
	switch a {
	case ActionUpdateMods:
		return "Update mods"
	case ActionUpdateShaders:
		return "Update shaders"
	case ActionZipMods:
		return "Zip mods directory"
	case ActionDownloadLoader:
		return "Download mod loader installer"
	case ActionClearCache:
		return "Clear cache"
	}
	return ""
}

// Help returns the flag usage text.
func (a Action) Help() string {
	switch a {
	case ActionUpdateMods:
		return "Download and install latest mods."
	case ActionUpdateShaders:
		return "Download and install latest shaders."
	case ActionZipMods:
		return "Compress all mods in DIR to a zip file FILE (--zip-mods DIR FILE)."
	case ActionDownloadLoader:
		return "Download the mod loader installer."
	case ActionClearCache:
		return "Clear your local cache."
	}
	return ""
}

type flagState struct {
	updateMods     bool
	updateShaders  bool
	zipMods        bool
	downloadLoader bool
	clearCache     bool
}

// selectedActions returns the requested actions in execution order.
func selectedActions(f flagState) []Action {
	var selected []Action
	for _, a := range allActions {
		var on bool
		switch a {
		case ActionUpdateMods:
			on = f.updateMods
		case ActionUpdateShaders:
			on = f.updateShaders
		case ActionZipMods:
			on = f.zipMods
		case ActionDownloadLoader:
			on = f.downloadLoader
		case ActionClearCache:
			on = f.clearCache
		}
		if on {
			selected = append(selected, a)
		}
	}
	return selected
}

const quitToken = "q"

// menu shows the actions until the operator quits. Failures are reported and
// the menu is shown again; cancellation ends it.
func (a *app) menu(ctx context.Context) error {
	tokens := make([]string, 0, len(allActions)+1)
	for i := range allActions {
		tokens = append(tokens, strconv.Itoa(i+1))
	}
	tokens = append(tokens, quitToken)

	for {
		fmt.Fprintln(a.out)
		for i, action := range allActions {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, action.Label())
		}
		fmt.Fprintf(a.out, "  %s) Quit\n", quitToken)

		answer, decision := a.gate.Choose(ctx, "Select an option", tokens)
		if decision == gate.Cancelled {
			return apperr.ErrCancelled
		}
		if answer == quitToken {
			return nil
		}

		n, _ := strconv.Atoi(answer)
		action := allActions[n-1]

		var err error
		if action == ActionZipMods {
			err = a.promptZipMods(ctx)
		} else {
			err = a.run(ctx, action)
		}
		if err != nil {
			if apperr.IsCancelled(err) {
				return err
			}
			fmt.Fprintln(a.out, goterm.Color(err.Error(), goterm.RED))
		}
	}
}

func (a *app) promptZipMods(ctx context.Context) error {
	dir, decision := a.gate.Ask(ctx, "Mods directory")
	if decision == gate.Cancelled {
		return apperr.ErrCancelled
	}
	file, decision := a.gate.Ask(ctx, "Output zip file")
	if decision == gate.Cancelled {
		return apperr.ErrCancelled
	}
	return a.zipMods(ctx, dir, a.outputPath(file))
}

// outputPath places relative menu answers in the configured output directory.
func (a *app) outputPath(file string) string {
	file, err := homedir.Expand(file)
	if err != nil || filepath.IsAbs(file) || a.cfg.Paths.OutputDir == "" {
		return file
	}
	return filepath.Join(a.cfg.Paths.OutputDir, file)
}
