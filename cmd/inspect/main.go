package main

import (
	"flag"
	"fmt"
	"os"

	"barycentric-renderer/internal/imageio"
)

func main() {
	px := flag.Int("x", -1, "Print the pixel at this column (requires -y)")
	py := flag.Int("y", -1, "Print the pixel at this row (requires -x)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-x X -y Y] image\n", os.Args[0])
		os.Exit(2)
	}
	path := flag.Arg(0)

	img, format, err := imageio.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := imageio.ComputeStats(img)
	fmt.Printf("%s: %s %dx%d\n", path, format, s.Width, s.Height)
	fmt.Printf("  Covered: %d pixels (%.2f%%)\n", s.Covered, s.Coverage()*100)
	fmt.Printf("  Mean RGB: (%.2f, %.2f, %.2f), max channel %d\n", s.MeanRGB[0], s.MeanRGB[1], s.MeanRGB[2], s.MaxValue)

	if *px >= 0 && *py >= 0 {
		b := img.Bounds()
		if *px >= b.Dx() || *py >= b.Dy() {
			fmt.Fprintf(os.Stderr, "Error: pixel (%d,%d) outside %dx%d\n", *px, *py, b.Dx(), b.Dy())
			os.Exit(1)
		}
		c := img.NRGBAAt(b.Min.X+*px, b.Min.Y+*py)
		fmt.Printf("  Pixel (%d,%d): (%d, %d, %d)\n", *px, *py, c.R, c.G, c.B)
	}
}
