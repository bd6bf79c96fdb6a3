//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package imagesource

import (
	"context"
	"fmt"
	"image"
)

func portalScreenshot(context.Context, bool) (image.Image, error) {
	return nil, fmt.Errorf("portal screenshot is not supported on this platform")
}
