package helper

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const photoMaxWidth = 600

// SavePhotoAsWebp re-encodes an uploaded photo to webp, resizes it and stores
// it under MEDIA_DIR/<folder>/. Returns the relative path saved on the record.
func SavePhotoAsWebp(folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("no se pudo abrir la imagen: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("formato de imagen no soportado: %w", err)
	}

	if img.Bounds().Dx() > photoMaxWidth {
		img = imaging.Resize(img, photoMaxWidth, 0, imaging.Lanczos)
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}
	dir := filepath.Join(mediaDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := GenerateUniqueFilename(fileHeader.Filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if err := webp.Encode(dst, img, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("no se pudo convertir la imagen: %w", err)
	}

	return filepath.ToSlash(filepath.Join(folder, name)), nil
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func GenerateUniqueFilename(originalFilename string) string {
	base := unsafeFilenameRe.ReplaceAllString(originalFilename, "_")
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return fmt.Sprintf("%s-%s-%s.webp", time.Now().Format("20060102"), uuid.New().String(), stem)
}
