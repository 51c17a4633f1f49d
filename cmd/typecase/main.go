/*
Command typecase is an interactive shell for experimenting with fonts,
shaping and rendering.

	typecase -shaper harfbuzz -trace Debug
	tc > font serif 24 700 italic
	tc > shape Hello World
	tc > draw hello.png Hello World

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fontregistry"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/typecase/core/font/platform"
	"github.com/npillmayer/typecase/engine/bootstrap"
	"github.com/pterm/pterm"
	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
)

// tracer traces with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	platformName := flag.String("platform", "ximage", "Font platform [ximage|gotext|tdewolff]")
	shaperName := flag.String("shaper", "harfbuzz", "Shaper [harfbuzz|gotext|monospace|simple]")
	script := flag.String("script", "", "ISO 15924 script to shape with")
	lang := flag.String("lang", "", "BCP 47 language to shape with")
	fontdirs := flag.String("fontdirs", "", "Additional font directories")
	flag.Parse()

	// set up logging and configuration
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.typecase.fonts":     *tlevel,
		"trace.typecase.glyphs":    *tlevel,
		"trace.typecase.render":    *tlevel,
		"trace.typecase.resources": *tlevel,
		"font.platform":            *platformName,
		"font.shaper":              *shaperName,
		"font.dirs":                *fontdirs,
		"shaping.script":           *script,
		"shaping.language":         *lang,
		"app-key":                  "typecase",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the typecase shell")
	tracer().Infof("Trace level is %s", *tlevel)

	// set up the engine
	if err := bootstrap.RegisterAll(); err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	eng, err := bootstrap.Setup(conf)
	if err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	//
	// set up REPL
	repl, err := readline.New("tc > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, eng: eng, fc: eng.NewContext()}
	intp.style = font.Style{PtSize: 16, Families: []string{eng.Params.DefaultFamily}}
	intp.group = intp.fc.GroupForStyle(intp.style)
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl  *readline.Instance
	eng   *bootstrap.Engine
	fc    *fontregistry.Context
	style font.Style
	group *font.Group
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Debugf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	tracer().Debugf("command %q, argument %q", cmd, arg)
	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true, nil
	case "font":
		return false, intp.selectFont(strings.Fields(arg))
	case "load":
		return false, intp.load(arg)
	case "shape":
		return false, intp.shape(arg)
	case "measure":
		return false, intp.measure(arg)
	case "draw":
		file, text, _ := strings.Cut(arg, " ")
		return false, intp.draw(file, text)
	case "descriptor", "desc":
		return false, intp.descriptor()
	case "fonts":
		for _, desc := range intp.fc.Fonts() {
			pterm.Println(desc.String())
		}
		return false, nil
	}
	help()
	return false, nil
}

// selectFont parses 'families [size] [weight] [italic]', where families is
// a comma-separated list.
func (intp *Intp) selectFont(args []string) error {
	if len(args) == 0 {
		return core.Error(core.EINVALID, "usage: font <family,...> [size] [weight] [italic]")
	}
	style := font.Style{PtSize: intp.style.PtSize, Families: strings.Split(args[0], ",")}
	for _, a := range args[1:] {
		switch {
		case a == "italic":
			style.Slant = xfont.StyleItalic
		case a == "oblique":
			style.Slant = xfont.StyleOblique
		default:
			n, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return core.Error(core.EINVALID, "cannot interpret %q", a)
			}
			if n >= 100 && n <= 1000 && n == float64(int(n)/100*100) {
				style.Weight = platform.WeightFromClass(int(n))
			} else {
				style.PtSize = n
			}
		}
	}
	intp.style = style
	intp.group = intp.fc.GroupForStyle(style)
	f := intp.group.Primary()
	pterm.Info.Printfln("using %s %s at %.1fpx", f.Handle().FamilyName(), f.Handle().FaceName(),
		f.Style().PtSize)
	return nil
}

func (intp *Intp) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "cannot read font file %s", path)
	}
	face, err := intp.eng.Memory.Add("", data)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("added %s (%s %s)", face.ID, face.Family, face.Variant)
	return nil
}

func (intp *Intp) shape(text string) error {
	run := intp.group.CreateTextRun(text, font.Decoration{})
	data := pterm.TableData{{"char", "text", "glyph", "advance", "font"}}
	runes := []rune(text)
	for _, sl := range run.Segments() {
		sl.Store.ForEach(sl.Range, func(i glyphs.CharIndex, g glyphs.Glyph) bool {
			c := int(i) + int(sl.Offset)
			data = append(data, []string{
				strconv.Itoa(c),
				string(runes[c]),
				strconv.Itoa(int(g.ID)),
				fmt.Sprintf("%.2f", g.Advance.Px()),
				run.Font.Handle().FaceIdentifier(),
			})
			return true
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) measure(text string) error {
	run := intp.group.CreateTextRun(text, font.Decoration{})
	m := intp.group.Primary().MeasureText(run, run.Range())
	pterm.Println(m.String())
	return nil
}

func (intp *Intp) draw(file, text string) error {
	if file == "" || text == "" {
		return core.Error(core.EINVALID, "usage: draw <file.png> <text>")
	}
	run := intp.group.CreateTextRun(text, font.Decoration{})
	f := intp.group.Primary()
	m := f.MeasureText(run, run.Range())
	const margin = 8
	w := int(m.Advance.RoundPx()) + 2*margin
	h := int((m.Ascent + m.Descent).RoundPx()) + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	baseline := dimen.Point{X: dimen.FromPx(margin), Y: m.Ascent + dimen.FromPx(margin)}
	if err := f.DrawText(img, run, run.Range(), baseline, color.Black); err != nil {
		return err
	}
	out, err := os.Create(file)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", file)
	}
	defer out.Close()
	if err = png.Encode(out, img); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode image")
	}
	pterm.Info.Printfln("wrote %dx%d image to %s", w, h, file)
	return nil
}

func (intp *Intp) descriptor() error {
	b, err := json.MarshalIndent(intp.group.Primary().Descriptor(), "", "  ")
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode descriptor")
	}
	pterm.Println(string(b))
	return nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	font <family,...> [size] [weight] [italic]   select a font group
	load <file>                                  add a font file
	shape <text>                                 show glyphs for text
	measure <text>                               show metrics for text
	draw <file.png> <text>                       render text to a PNG image
	descriptor                                   show descriptor of primary font
	fonts                                        list fonts of this session
	quit
	`)
}
