package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"github.com/example/picannotate/internal/imagesource"
	"github.com/example/picannotate/internal/render"
	"github.com/example/picannotate/internal/stage"
)

var loadImage = imagesource.Load

// renderCmd paints annotations over an image without opening a window.
type renderCmd struct {
	*root
	fs          *flag.FlagSet
	image       string
	annotations string
	output      string
	selected    string
	shadow      bool
	timeout     time.Duration
	stdout      io.Writer
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs, stdout: os.Stdout}
	if r != nil {
		c.root = r.subcommand("render")
	}
	fs.StringVar(&c.image, "image", "", "image to render: a file, clipboard: or portal:[interactive]")
	fs.StringVar(&c.annotations, "annotations", "", "JSON file with the annotations, - for stdin, clipboard: for the clipboard")
	fs.StringVar(&c.output, "output", "annotated.png", "output file (png, jpg, gif, tif or bmp), - for PNG on stdout")
	fs.StringVar(&c.selected, "select", "", "draw this annotation as selected")
	fs.BoolVar(&c.shadow, "shadow", false, "add a drop shadow around the rendered image")
	fs.DurationVar(&c.timeout, "timeout", 30*time.Second, "give up loading the image after this long")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.image == "" || c.output == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	list, err := readAnnotations(c.annotations)
	if err != nil {
		return err
	}
	opts, err := c.stageOptions()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	img, err := loadImage(ctx, c.image)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.image, err)
	}

	st := stage.New(opts...)
	st.SetImage(c.image)
	st.ImageLoadedFor(c.image, img)
	st.SyncAnnotations(list)
	st.SyncSelectedID(c.selected)

	out, err := st.Frame().Flatten(ctx)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.shadow {
		out = render.ApplyShadow(out, render.DefaultShadowOptions()).Image
	}
	if c.output == "-" {
		return png.Encode(c.stdout, out)
	}
	if err := imaging.Save(out, c.output); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.output, err)
	}
	c.notifier.Export(c.output)
	return nil
}
