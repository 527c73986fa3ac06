package files

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var archiveExtensions = []string{".zip", ".tar.gz", ".tgz", ".tar"}

// IsArchive reports whether the file name carries a supported archive extension.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExtractArchive unpacks the archive at src into destDir. Entries resolving
// outside destDir are rejected. The archive format is chosen by extension.
func ExtractArchive(src, destDir string) error {
	lower := strings.ToLower(src)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(src, destDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractTar(src, destDir, true)
	case strings.HasSuffix(lower, ".tar"):
		return extractTar(src, destDir, false)
	default:
		return fmt.Errorf("unsupported archive format: %q", filepath.Base(src))
	}
}

func extractZip(src, destDir string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open archive %q: %w", src, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		target, err := EnsureWithinRoot(destDir, filepath.Join(destDir, entry.Name))
		if err != nil {
			return fmt.Errorf("rejected archive entry %q: %w", entry.Name, err)
		}

		if entry.FileInfo().IsDir() {
			if err := CreateFolderIfNotExists(target); err != nil {
				return err
			}
			continue
		}

		if err := extractZipEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(entry *zip.File, target string) error {
	if err := CreateFolderIfNotExists(filepath.Dir(target)); err != nil {
		return err
	}

	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %q: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entry.Mode())
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to extract %q: %w", entry.Name, err)
	}
	return nil
}

func extractTar(src, destDir string, gzipped bool) error {
	file, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open archive %q: %w", src, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if gzipped {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to read gzip stream of %q: %w", src, err)
		}
		defer gz.Close()
		reader = gz
	}

	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive %q: %w", src, err)
		}

		target, err := EnsureWithinRoot(destDir, filepath.Join(destDir, header.Name))
		if err != nil {
			return fmt.Errorf("rejected archive entry %q: %w", header.Name, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := CreateFolderIfNotExists(target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := CreateFolderIfNotExists(filepath.Dir(target)); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("failed to create %q: %w", target, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("failed to extract %q: %w", header.Name, err)
			}
			out.Close()
		default:
			// symlinks and special files from untrusted uploads are skipped
			continue
		}
	}
}
