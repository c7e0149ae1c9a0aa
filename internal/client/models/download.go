package models

import "fmt"

// Folder selects which rendition of an image to download.
type Folder string

const (
	FolderOriginal  Folder = "original"
	FolderThumbnail Folder = "thumbnail"
)

// ParseFolder accepts "original" or "thumbnail"; empty means original.
func ParseFolder(s string) (Folder, error) {
	switch Folder(s) {
	case "", FolderOriginal:
		return FolderOriginal, nil
	case FolderThumbnail:
		return FolderThumbnail, nil
	default:
		return "", fmt.Errorf("unknown folder %q (want original or thumbnail)", s)
	}
}

// DownloadRequest is the body of the download call.
type DownloadRequest struct {
	FileName   string `json:"fileName"`
	FolderName Folder `json:"folderName"`
}
