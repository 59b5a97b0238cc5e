package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gioui.org/app"
	"golang.org/x/term"

	"github.com/esimov/vaire"
	"github.com/esimov/vaire/capture"
	"github.com/esimov/vaire/imgseq"
	"github.com/esimov/vaire/utils"
	"github.com/esimov/vaire/y4m"
)

const helpBanner = `
┬  ┬┌─┐┬┬─┐┌─┐
└┐┌┘├─┤│├┬┘├┤
 └┘ ┴ ┴┴┴└─└─┘

Content aware video resize library.
    Version: %s

Usage: vaire [flags] <input> <output> <pixels>
`

// pipeName indicates that stdin/stdout is being used as file names.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	threshold  = flag.Float64("threshold", 0.3, "Shot boundary histogram distance trigger")
	blurRadius = flag.Int("blur", 0, "Blur radius applied before the gradient pass")
	seed       = flag.Int64("seed", 0, "Seam selector random seed (0 seeds from the clock)")
	profile    = flag.Bool("profile", false, "Print the kernel timing report")
	preview    = flag.Bool("preview", false, "Show the GUI preview window")
	debug      = flag.Bool("debug", false, "Overlay the carved seams in the preview window")
	seamColor  = flag.String("color", "#ff0000", "Seam overlay color")
	faceDetect = flag.Bool("face", false, "Protect the detected faces from carving")
	cascade    = flag.String("cc", "", "Face classifier cascade file path")
	faceAngle  = flag.Float64("angle", 0.0, "Face rotation angle")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide the input, the output and the number of pixels to carve!", utils.ErrorMessage))
	}

	pixels, err := strconv.Atoi(flag.Arg(2))
	if err != nil || pixels < 1 {
		log.Fatal(utils.DecorateText("\nThe number of pixels to carve must be a positive integer!", utils.ErrorMessage))
	}
	if *threshold < 0 || *threshold > 1 {
		log.Fatal(utils.DecorateText("\nThe shot threshold must stay inside [0, 1]!", utils.ErrorMessage))
	}

	proc := &vaire.Processor{
		Pixels:      pixels,
		Threshold:   *threshold,
		BlurRadius:  *blurRadius,
		Seed:        *seed,
		Profile:     *profile,
		Preview:     *preview,
		Debug:       *debug,
		SeamColor:   *seamColor,
		FaceDetect:  *faceDetect,
		CascadePath: *cascade,
		FaceAngle:   *faceAngle,
	}

	if *preview {
		// When the preview mode is activated the carving process needs to be
		// executed in a separate goroutine in order to not block the Gio
		// thread, which needs to be run on the main OS thread on operating
		// systems like MacOS.
		go func() {
			execute(proc, flag.Arg(0), flag.Arg(1))
			os.Exit(0)
		}()
		app.Main()
	} else {
		execute(proc, flag.Arg(0), flag.Arg(1))
	}
}

// execute wires the source and the destination to the processor and runs the
// carving process.
func execute(proc *vaire.Processor, in, out string) {
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ VAIRE", utils.StatusMessage),
		utils.DecorateText("⇢ carving video (be patient, it may take a while)...", utils.DefaultMessage),
	)
	spinner := utils.NewSpinner(defaultMsg, time.Millisecond*80)

	// Check if the source path is a local file or an URL.
	if utils.IsValidUrl(in) {
		src, err := utils.DownloadFile(in)
		if src != nil {
			defer os.Remove(src.Name())
			defer src.Close()
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source video: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		in = src.Name()
	}

	dec, err := openSource(in)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to open the source video: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	defer dec.Close()

	meta := dec.Metadata()
	if meta.Width <= proc.Pixels {
		log.Fatal(utils.DecorateText(
			fmt.Sprintf("cannot carve %d pixels out of a %d pixel wide video", proc.Pixels, meta.Width),
			utils.ErrorMessage,
		))
	}

	outMeta := meta
	outMeta.Width = meta.Width - proc.Pixels

	enc, err := openSink(out, dec, outMeta)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to open the destination video: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	now := time.Now()
	spinner.Start()

	err = proc.Process(dec, enc)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		spinner.StopMsg = fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ VAIRE", utils.StatusMessage),
			utils.DecorateText("carving video failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		spinner.Stop()
		log.Fatalf(
			utils.DecorateText("\nError carving the video: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
	}

	spinner.StopMsg = fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ VAIRE", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the video has been carved successfully ✔", utils.SuccessMessage),
	)
	spinner.Stop()

	proc.ProfileReport(os.Stderr)

	if out != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe carved video has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(out), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
}

// openSource picks the decoder matching the input path: a directory is read
// as an image sequence, a y4m file or a stdin pipe as a YUV4MPEG2 stream and
// anything else goes through OpenCV, when compiled in.
func openSource(in string) (vaire.Decoder, error) {
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("`-` should be used with a pipe for stdin")
		}
		return y4m.NewReader(os.Stdin)
	}

	fs, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if fs.IsDir() {
		return imgseq.NewReader(in)
	}
	if filepath.Ext(in) == ".y4m" {
		file, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		return y4m.NewReader(file)
	}
	return capture.NewReader(in)
}

// openSink picks the encoder matching the output path. An image sequence
// source pairs with an image sequence destination so the carved stills keep
// their source names.
func openSink(out string, dec vaire.Decoder, meta vaire.Metadata) (vaire.Encoder, error) {
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, fmt.Errorf("`-` should be used with a pipe for stdout")
		}
		return y4m.NewWriter(os.Stdout, meta)
	}

	if src, ok := dec.(*imgseq.Reader); ok {
		return imgseq.NewWriter(out, src)
	}
	if filepath.Ext(out) == ".y4m" {
		file, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		return y4m.NewWriter(file, meta)
	}
	return capture.NewWriter(out, meta)
}
