package placeholder

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 960
	jpegQuality   = 80
	imagesSubdir  = "images"
)

// Generate converts up to Count source images into the placeholder set under
// outDir/images. The i-th source becomes blog-placeholder-(i+1).jpg, scaled
// down to maxImageWidth when wider.
func Generate(outDir string, sources []string) ([]string, error) {
	if len(sources) == 0 || len(sources) > Count {
		return nil, fmt.Errorf("placeholder: need 1 to %d source images, got %d", Count, len(sources))
	}
	dir := filepath.Join(outDir, imagesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("placeholder: create images dir: %w", err)
	}

	written := make([]string, 0, len(sources))
	for i, src := range sources {
		data, err := convert(src)
		if err != nil {
			return written, fmt.Errorf("placeholder: %s: %w", src, err)
		}
		name := strings.TrimPrefix(Path(i+1), "/"+imagesSubdir+"/")
		dst := filepath.Join(dir, name)
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("placeholder: write %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

// convert decodes the image at path, shrinks it to maxImageWidth and
// re-encodes it as JPEG.
func convert(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
