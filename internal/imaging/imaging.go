package imaging

import (
  "bytes"
  "fmt"
  "image"
  "image/jpeg"
  _ "image/png"
  "io"
  "net/http"

  "golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
  "image/jpeg": true,
  "image/png":  true,
}

// Sniff detects the MIME type from the payload bytes (never from client
// headers) and rejects anything that is not JPEG or PNG.
func Sniff(data []byte) (string, error) {
  detected := http.DetectContentType(data)
  if !AllowedMIME[detected] {
    return "", fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
  }
  return detected, nil
}

// ProcessResult contains the processed image data.
type ProcessResult struct {
  Data []byte
  MIME string
}

// Process validates the format by sniffing bytes, downscales if larger than
// MaxDimension, and re-encodes as JPEG for consistent storage.
func Process(r io.Reader) (*ProcessResult, error) {
  data, err := io.ReadAll(r)
  if err != nil {
    return nil, fmt.Errorf("reading image data: %w", err)
  }

  if _, err := Sniff(data); err != nil {
    return nil, err
  }

  img, _, err := image.Decode(bytes.NewReader(data))
  if err != nil {
    return nil, fmt.Errorf("decoding image: %w", err)
  }

  img = downscale(img, MaxDimension)

  var buf bytes.Buffer
  if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
    return nil, fmt.Errorf("encoding JPEG: %w", err)
  }

  return &ProcessResult{
    Data: buf.Bytes(),
    MIME: "image/jpeg",
  }, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// aspect ratio. Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
  bounds := img.Bounds()
  w := bounds.Dx()
  h := bounds.Dy()

  if w <= maxDim && h <= maxDim {
    return img
  }

  newW, newH := w, h
  if w > h {
    newW = maxDim
    newH = int(float64(h) * float64(maxDim) / float64(w))
  } else {
    newH = maxDim
    newW = int(float64(w) * float64(maxDim) / float64(h))
  }

  if newW < 1 {
    newW = 1
  }
  if newH < 1 {
    newH = 1
  }

  dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
  draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
  return dst
}
