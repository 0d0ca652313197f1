package trace

import (
	"fmt"
	"io"
	"strings"
)

const (
	svgOpen  = "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">"
	svgClose = "</svg>"
	pathTag  = "<path fill=\"%s\" d=\"%s\"/>"
)

// writeRun appends a one-pixel-high rectangle covering [x0,x1) on row y.
func writeRun(sb *strings.Builder, y, x0, x1 int) {
	w := x1 - x0
	_, _ = fmt.Fprintf(sb, "M%d %dh%dv1h-%dz", x0, y, w, w)
}

// layer is one filled path of the output document.
type layer struct {
	fill string
	d    *strings.Builder
}

// writeDocument emits a complete SVG with the given layers, skipping empty ones.
func writeDocument(w io.Writer, width, height int, layers []layer) {
	_, _ = fmt.Fprintf(w, svgOpen, width, height, width, height)
	for _, l := range layers {
		if l.d.Len() == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, pathTag, l.fill, l.d.String())
	}
	_, _ = io.WriteString(w, svgClose)
}
