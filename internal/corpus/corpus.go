// Package corpus reads song files from the lyrics database.
//
// The database is a directory hierarchy of letter → artist → album → song
// file. Each level is visited in case-insensitive ascending order so that the
// pipeline output is stable across platforms. Song files are usually plain
// UTF-8 text; scraped lyric pages (.html/.htm) are reduced to their text.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFileSizeBytes limits how much of a single song file is read.
const MaxFileSizeBytes = 50 * 1024 * 1024

// ErrTooLarge is returned when a song file exceeds MaxFileSizeBytes.
var ErrTooLarge = errors.New("file exceeds size limit")

// Entry identifies one song file in the hierarchy.
type Entry struct {
	Path   string // full path to the song file
	Artist string // second-level directory
	Album  string // third-level directory
	Title  string // song file name
}

// Walk visits every song file under root in letter, artist, album, song
// order. Entries that are not directories at the first three levels, and
// directories at the song level, are skipped. Walk stops at the first error
// returned by fn.
func Walk(root string, fn func(Entry) error) error {
	letters, err := sortedDir(root)
	if err != nil {
		return fmt.Errorf("failed to read corpus root %q: %w", root, err)
	}

	for _, letter := range letters {
		if !isDir(root, letter) {
			continue
		}
		letterPath := filepath.Join(root, letter.Name())

		artists, err := sortedDir(letterPath)
		if err != nil {
			return fmt.Errorf("failed to read letter directory %q: %w", letterPath, err)
		}
		for _, artist := range artists {
			if !isDir(letterPath, artist) {
				continue
			}
			artistPath := filepath.Join(letterPath, artist.Name())

			albums, err := sortedDir(artistPath)
			if err != nil {
				return fmt.Errorf("failed to read artist directory %q: %w", artistPath, err)
			}
			for _, album := range albums {
				if !isDir(artistPath, album) {
					continue
				}
				albumPath := filepath.Join(artistPath, album.Name())

				songs, err := sortedDir(albumPath)
				if err != nil {
					return fmt.Errorf("failed to read album directory %q: %w", albumPath, err)
				}
				for _, song := range songs {
					if !isRegular(albumPath, song) {
						continue
					}
					entry := Entry{
						Path:   filepath.Join(albumPath, song.Name()),
						Artist: artist.Name(),
						Album:  album.Name(),
						Title:  song.Name(),
					}
					if err := fn(entry); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// Count returns the number of regular files anywhere under root.
func Count(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if isRegular(filepath.Dir(path), d) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count files in %q: %w", root, err)
	}

	slog.Debug("Corpus files counted", "root", root, "count", count)
	return count, nil
}

// ReadSong returns the text of a song file. HTML pages are reduced to their
// lyric text using selector when non-empty, or main-content extraction otherwise.
func ReadSong(path, selector string) (string, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.Size() > MaxFileSizeBytes {
		return "", fmt.Errorf("%w: %q is %d bytes (limit %d)", ErrTooLarge, path, fileInfo.Size(), MaxFileSizeBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if isHTML(path) {
		return ExtractLyrics(strings.NewReader(string(data)), selector)
	}
	return string(data), nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// isDir reports whether e is a directory, following symlinks.
func isDir(dir string, e os.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(dir string, e os.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// sortedDir lists a directory ordered case-insensitively, falling back to the
// raw name so that names differing only in case keep a fixed order.
func sortedDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name()), strings.ToLower(entries[j].Name())
		if a != b {
			return a < b
		}
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}
