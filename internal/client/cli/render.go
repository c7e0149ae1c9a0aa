package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/client/client"
	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/client/services"
)

const dateLayout = "2006-01-02 15:04"

// describeError turns an error into the line shown to the user.
func describeError(err error) string {
	var (
		rf *client.RequestFailedError
		mr *client.MalformedResponseError
		ne *client.NetworkError
		ve *services.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case client.IsSessionExpired(err):
		return "session expired, please log in again"
	case errors.As(err, &rf):
		return fmt.Sprintf("request failed (HTTP %d): %s", rf.StatusCode, rf.Message)
	case errors.As(err, &mr):
		return "unexpected response from the server"
	case errors.As(err, &ne):
		return "network error: " + ne.Err.Error()
	case errors.Is(err, services.ErrNotLoggedIn):
		return "please log in first"
	default:
		return err.Error()
	}
}

// report prints err unless it is a session expiry, which the logout hook
// has already announced.
func report(err error) error {
	if err != nil && !client.IsSessionExpired(err) {
		printlnFn("Error: " + describeError(err))
	}
	return err
}

// renderList formats a snapshot, one line per image, in server order.
func renderList(snap *models.ImageListSnapshot) []string {
	if snap == nil || len(snap.Files) == 0 {
		return []string{"No images yet. Use 'select <path>' and 'upload' to add one."}
	}

	lines := make([]string, 0, len(snap.Files)+1)
	lines = append(lines, fmt.Sprintf("%d image(s):", snap.ImageCount))
	for i, f := range snap.Files {
		thumb := "processing…"
		if size, ok := f.ThumbnailSize(); ok {
			thumb = models.FormatBytes(size, 2)
		}
		date := "-"
		if !f.UploadDate.IsZero() {
			date = f.UploadDate.Local().Format(dateLayout)
		}
		lines = append(lines, fmt.Sprintf("%3d. %s  [%s]  %s  uploaded %s  thumbnail: %s",
			i+1, f.OriginalFileName, f.FileName, models.FormatBytes(f.OriginalFileSize, 2), date, thumb))
	}
	return lines
}

// progressBar renders percent as a fixed-width bar.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	const width = 20
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(".", width-filled), percent)
}
