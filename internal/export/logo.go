package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	PlaceholderLogo = "placeholder.png"
	logoMaxWidth    = 480
	logoMaxHeight   = 240
)

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// Logos stores dairy logos and resolves them for rendering.
type Logos struct {
	appRoot   string
	uploadDir string
}

func NewLogos(appRoot, uploadDir string) *Logos {
	return &Logos{appRoot: appRoot, uploadDir: uploadDir}
}

func (l *Logos) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.appRoot, p)
}

// Resolve returns a readable image for a dairy logo: the logo itself, else
// the shared placeholder, else "".
func (l *Logos) Resolve(logoPath string) string {
	if logoPath != "" {
		if fileExists(logoPath) {
			return logoPath
		}
		if p := l.abs(logoPath); fileExists(p) {
			return p
		}
	}
	if p := l.abs(filepath.Join(l.uploadDir, PlaceholderLogo)); fileExists(p) {
		return p
	}
	return ""
}

// Save decodes an uploaded image, fits it into the logo box and stores it as
// PNG. The returned path is relative to the app root when uploadDir is.
func (l *Logos) Save(r io.Reader, originalName string) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode logo: %w", err)
	}
	img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)

	dir := l.abs(l.uploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := logoFileName(originalName)
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save logo: %w", err)
	}
	return filepath.Join(l.uploadDir, name), nil
}

func logoFileName(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if base == "" {
		base = "logo"
	}
	return fmt.Sprintf("%s-%s.png", base, uuid.NewString()[:8])
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
