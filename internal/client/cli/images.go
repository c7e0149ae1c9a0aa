package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/services"
)

// List prints the last fetched gallery, fetching it first if there is none.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return report(services.ErrNotLoggedIn)
	}
	snap := a.poller.Snapshot()
	if snap == nil {
		var err error
		if snap, err = a.fetch(ctx); err != nil {
			return err
		}
	}
	for _, line := range renderList(snap) {
		printlnFn(line)
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	snap, err := a.fetch(ctx)
	if err != nil {
		return err
	}
	if n := snap.PendingCount(); n > 0 {
		printlnFn(fmt.Sprintf("%d image(s), %d thumbnail(s) processing", snap.ImageCount, n))
	} else {
		printlnFn(fmt.Sprintf("%d image(s)", snap.ImageCount))
	}
	return nil
}

// fetch refreshes the poller. Fetch failures are announced by the poller
// listener, so only local conditions are printed here.
func (a *App) fetch(ctx context.Context) (*models.ImageListSnapshot, error) {
	snap, err := a.poller.Refresh(ctx)
	switch {
	case errors.Is(err, services.ErrRefreshInProgress):
		printlnFn("A refresh is already running.")
	case errors.Is(err, services.ErrNotLoggedIn):
		report(err)
	}
	return snap, err
}

// Select stages the file at args[0].
func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: select <path>")
		return errUsage
	}
	candidate, err := models.LocalFile(args[0])
	if err != nil {
		return report(err)
	}
	staged, err := a.upload.SelectFile(candidate)
	if err != nil {
		return report(err)
	}

	line := fmt.Sprintf("Selected %s (%s)", staged.File.Name, models.FormatBytes(staged.File.Size, 2))
	if staged.PreviewErr == nil {
		line += ", " + staged.Preview.String()
	}
	printlnFn(line)
	return nil
}

func (a *App) ClearFile(ctx context.Context) error {
	if err := a.upload.ClearFile(); err != nil {
		return report(err)
	}
	printlnFn("Selection cleared.")
	return nil
}

// Upload sends the staged file, or stages args[0] first, and renders the
// progress until the upload ends.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) > 1 {
		printlnFn("Usage: upload [path]")
		return errUsage
	}
	if len(args) == 1 {
		if err := a.Select(ctx, args); err != nil {
			return err
		}
	}

	events, err := a.upload.StartUpload(ctx)
	if err != nil {
		return report(err)
	}

	shown := -1
	for ev := range events {
		switch ev.Outcome {
		case models.UploadInProgress:
			// every 10% is enough for a line-oriented terminal
			if ev.Progress/10 > shown/10 || (ev.Progress == 100 && shown != 100) {
				shown = ev.Progress
				printlnFn("Uploading " + progressBar(ev.Progress))
			}
		case models.UploadSucceeded:
			printlnFn("Upload complete, processing thumbnail…")
			if ev.RefreshErr != nil {
				printlnFn("Could not refresh the image list: " + describeError(ev.RefreshErr))
			}
		case models.UploadSessionExpired:
			err = ev.Err
		case models.UploadFailed:
			err = report(ev.Err)
		}
	}
	return err
}

// Download saves one rendition of args[0] through the configured sink.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		printlnFn("Usage: download <file> [original|thumbnail]")
		return errUsage
	}
	folder := models.FolderOriginal
	if len(args) == 2 {
		f, err := models.ParseFolder(args[1])
		if err != nil {
			return report(err)
		}
		folder = f
	}

	where, err := a.gallery.Download(ctx, args[0], folder, a.sink)
	if err != nil {
		return report(err)
	}
	printlnFn("Saved to " + where)
	return nil
}

// Delete asks for confirmation unless -y is given.
func (a *App) Delete(ctx context.Context, args []string) error {
	var names []string
	yes := false
	for _, arg := range args {
		if arg == "-y" {
			yes = true
			continue
		}
		names = append(names, arg)
	}
	if len(names) != 1 {
		printlnFn("Usage: delete [-y] <file>")
		return errUsage
	}
	if !a.isLoggedIn(ctx) {
		return report(services.ErrNotLoggedIn)
	}

	if !yes {
		answer, err := getSimpleText(a.reader, "Delete "+names[0]+"? This cannot be undone [y/N]", a.out)
		if err != nil {
			return err
		}
		if ans := strings.ToLower(answer); ans != "y" && ans != "yes" {
			printlnFn("Cancelled")
			return nil
		}
	}

	if err := a.gallery.Delete(ctx, names[0]); err != nil {
		return report(err)
	}
	printlnFn("Deleted " + names[0])
	return nil
}

var errUsage = errors.New("usage")
