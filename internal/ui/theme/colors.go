package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Colors returns pre-defined colors for use in the app
type Colors struct{}

// Online is used for peers that handshook recently.
func (c Colors) Online(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 52, G: 168, B: 83, A: 255} // #34a853
	}
	return color.NRGBA{R: 129, G: 201, B: 149, A: 255} // #81c995
}

// Offline is used for enabled peers that have not been seen lately.
func (c Colors) Offline(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 251, G: 188, B: 5, A: 255} // #fbbc05
	}
	return color.NRGBA{R: 253, G: 214, B: 99, A: 255}
}

// Disabled is used for disabled peers and suspended accounts.
func (c Colors) Disabled(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 234, G: 67, B: 53, A: 255} // #ea4335
	}
	return color.NRGBA{R: 242, G: 139, B: 130, A: 255} // #f28b82
}

// CardBackground returns the card background color
func (c Colors) CardBackground(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{R: 30, G: 30, B: 30, A: 255} // #1e1e1e
}

// CardOnlineBackground tints the card of an online peer.
func (c Colors) CardOnlineBackground(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 232, G: 245, B: 233, A: 255}
	}
	return color.NRGBA{R: 30, G: 50, B: 35, A: 255}
}

// Border returns the border color
func (c Colors) Border(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		return color.NRGBA{R: 218, G: 220, B: 224, A: 255} // #dadce0
	}
	return color.NRGBA{R: 60, G: 64, B: 67, A: 255} // #3c4043
}

// AppColors provides easy access to theme colors
var AppColors = Colors{}
