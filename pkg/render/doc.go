// Package render converts SVG documents into other formats.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg). They are
// used by the PDF sink and, when requested, by the PNG sink instead of its
// built-in rasteriser.
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Use [Available] to check for the tool before offering these formats.
package render
