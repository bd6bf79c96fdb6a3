package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/example/picannotate/internal/annotation"
	"github.com/example/picannotate/internal/appstate"
)

// annotateCmd opens the interactive window.
type annotateCmd struct {
	*root
	fs          *flag.FlagSet
	image       string
	annotations string
	selected    string
	width       int
	height      int
	follow      bool
	stdout      io.Writer
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs, stdout: os.Stdout}
	if r != nil {
		a.root = r.subcommand("annotate")
	}
	fs.StringVar(&a.image, "image", "", "image to annotate: a file, clipboard: or portal:[interactive]")
	fs.StringVar(&a.annotations, "annotations", "", "JSON file with the initial annotations, - for stdin, clipboard: for the clipboard")
	fs.StringVar(&a.selected, "select", "", "id of the initially selected annotation")
	fs.IntVar(&a.width, "width", 800, "window width in pixels")
	fs.IntVar(&a.height, "height", 600, "window height in pixels")
	fs.BoolVar(&a.follow, "follow", false, "keep reading JSON annotation arrays from stdin, one per line")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.image == "" && fs.NArg() > 0 {
		a.image = fs.Arg(0)
	}
	if a.image == "" {
		return nil, &UsageError{of: a}
	}
	if a.follow && a.annotations == "-" {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

// printer writes every annotation list it receives as one JSON line, and
// every selection change as {"selected":"<id>"}, where "" means none.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) print(list []annotation.Annotation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := annotation.Encode(p.w, list); err != nil {
		log.Printf("write annotations: %v", err)
	}
}

func (p *printer) selected(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := json.NewEncoder(p.w).Encode(struct {
		Selected string `json:"selected"`
	}{id}); err != nil {
		log.Printf("write selection: %v", err)
	}
}

func (a *annotateCmd) Run() error {
	list, err := readAnnotations(a.annotations)
	if err != nil {
		return err
	}
	stageOpts, err := a.stageOptions()
	if err != nil {
		return err
	}
	out := &printer{w: a.stdout}
	var app *appstate.AppState
	app = appstate.New(
		appstate.WithImageRef(a.image),
		appstate.WithAnnotations(list),
		appstate.WithSelectedID(a.selected),
		appstate.WithWindowSize(a.width, a.height),
		appstate.WithPanKey(a.config.PanKey),
		appstate.WithStageOptions(stageOpts...),
		appstate.WithLogger(a.logger),
		appstate.WithNotifier(a.notifier),
		appstate.WithOnChange(out.print),
		appstate.WithOnSelect(out.selected),
	)
	if a.follow {
		go a.followStdin(app)
	}
	app.Run()
	return nil
}

// followStdin forwards host updates to the window. A line holding a JSON
// array replaces the annotations; "select <id>" and "image <ref>" switch
// selection and image.
func (a *annotateCmd) followStdin(app *appstate.AppState) {
	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "select "):
			app.SyncSelectedID(strings.TrimSpace(strings.TrimPrefix(line, "select ")))
		case strings.HasPrefix(line, "image "):
			app.SetImage(strings.TrimSpace(strings.TrimPrefix(line, "image ")))
		default:
			list, err := annotation.Decode(strings.NewReader(line))
			if err != nil {
				log.Printf("stdin: %v", err)
				continue
			}
			app.SyncAnnotations(list)
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("stdin: %v", err)
	}
}
