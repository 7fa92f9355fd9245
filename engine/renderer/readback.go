package renderer

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// paddedRowSize returns the bytes per row of a texture-to-buffer copy, rounded up to the
// copy alignment.
func paddedRowSize(width int) int {
	align := int(wgpu.CopyBytesPerRowAlignment)
	row := width * 4
	return row + (align-row%align)%align
}

// isBGRA reports whether the surface format stores blue in the first byte.
func isBGRA(format wgpu.TextureFormat) bool {
	return format == wgpu.TextureFormatBGRA8Unorm || format == wgpu.TextureFormatBGRA8UnormSrgb
}

// decodeFrame converts a padded, mapped readback buffer into an RGBA image.
//
// Parameters:
//   - data: the mapped buffer, rowStride bytes per row
//   - width, height: the frame size in pixels
//   - rowStride: bytes per buffer row, at least width*4
//   - bgra: true if the source channels are ordered B, G, R, A
//
// Returns:
//   - *image.RGBA: the decoded frame
func decodeFrame(data []byte, width, height, rowStride int, bgra bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		src := data[y*rowStride : y*rowStride+width*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		copy(dst, src)
		if bgra {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img
}
