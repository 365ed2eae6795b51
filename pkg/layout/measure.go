package layout

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer estimates the rendered width of a label.
type Measurer interface {
	Width(label string) float64
}

// Measurer names accepted by [NewMeasurer].
const (
	MeasureMono  = "mono"
	MeasureCells = "cells"
	MeasureFont  = "font"
)

// Monospace measures labels as rune count times CharWidth.
type Monospace struct {
	CharWidth float64
}

func (m Monospace) Width(label string) float64 {
	return float64(utf8.RuneCountInString(label)) * m.CharWidth
}

// Cells measures labels in terminal cells, counting wide East Asian runes as
// two cells and combining marks as zero.
type Cells struct {
	CellWidth float64
}

func (c Cells) Width(label string) float64 {
	return float64(runewidth.StringWidth(label)) * c.CellWidth
}

// Font measures labels with the glyph advances of Go Regular at a given
// size. A Font is not safe for concurrent use.
type Font struct {
	face font.Face
	size float64
}

// NewFont loads Go Regular at size points (72 DPI, so points equal pixels).
func NewFont(size float64) (*Font, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &Font{face: face, size: size}, nil
}

func (f *Font) Width(label string) float64 {
	adv := font.MeasureString(f.face, label)
	return float64(adv) / 64
}

// Face returns the underlying font face, for surfaces that draw with it.
func (f *Font) Face() font.Face { return f.face }

// Size returns the font size in points.
func (f *Font) Size() float64 { return f.size }

// NewMeasurer returns the measurer registered under name. charWidth sizes
// the mono and cells measurers; fontSize sizes the font measurer.
func NewMeasurer(name string, charWidth, fontSize float64) (Measurer, error) {
	switch name {
	case "", MeasureMono:
		return Monospace{CharWidth: charWidth}, nil
	case MeasureCells:
		return Cells{CellWidth: charWidth}, nil
	case MeasureFont:
		return NewFont(fontSize)
	default:
		return nil, fmt.Errorf("unknown measurer %q (want %s, %s or %s)", name, MeasureMono, MeasureCells, MeasureFont)
	}
}
