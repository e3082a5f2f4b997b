// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt renders pin generation choices (style, typography, overlay
// text, branding) into the natural-language prompts sent to the model.
// Every function is pure.
package prompt

import (
	"fmt"
	"strings"

	"pinstudio/internal/models"
)

// IdeaCount is the number of concepts requested per batch.
const IdeaCount = 4

var styleInstructions = map[models.Style]string{
	models.StyleStockPhoto: `that looks like a high-quality, professional stock photo from a site like Unsplash or Pexels. ` +
		`Focus on natural lighting, realistic composition, and a clean, modern aesthetic. ` +
		`The subject should look authentic and not staged.`,
	models.StyleCinematic: `with a cinematic feel. Describe dramatic lighting, a shallow depth of field, an interesting camera angle, ` +
		`and a specific color grade (e.g., teal and orange, moody blues, warm vintage).`,
	models.StyleIllustration: `as a polished digital illustration. Describe the illustration technique (e.g., flat vector shapes, ` +
		`textured gouache, clean line art), a cohesive limited color palette, and simplified, expressive forms. ` +
		`It should read clearly at a small size.`,
	models.StyleVintageFilm: `that looks like it was shot on vintage analog film. Describe the film stock character ` +
		`(e.g., warm Kodak Portra tones, faded Polaroid colors), visible grain, soft halation around highlights, ` +
		`and a nostalgic, slightly imperfect mood.`,
	models.StyleMinimalist: `in a minimalist style. Describe a single clear subject, generous empty space, ` +
		`a restrained palette of two or three muted colors, and clean geometric composition with no visual clutter.`,
	models.StyleFoodPhotography: `in a style of professional food photography. Emphasize hyper-realism and appetizing details. ` +
		`Describe the lighting (e.g., soft natural light, dramatic side lighting), texture (e.g., glossy glaze, crumbly texture), ` +
		`and small details (e.g., steam gently rising, fresh herb garnish, condensation on a glass). ` +
		`The final image should look delicious and irresistible.`,
}

var typographyInstructions = map[models.Typography]string{
	models.TypographyElegantSerif: `The text should be in an elegant, high-contrast serif font, like Playfair Display or Lora. ` +
		`It should look sophisticated and classic.`,
	models.TypographyBoldSansSerif: `The text should be in a bold, modern sans-serif font, like Montserrat, Oswald, or Bebas Neue. ` +
		`It should be impactful and easy to read.`,
	models.TypographyPlayfulScript: `The text should be in a casual, friendly script or handwritten font, like Pacifico or Amatic SC. ` +
		`It should feel personal and inviting.`,
	models.TypographyMinimalist: `The text should be in a clean, simple, light-weight sans-serif font, like Lato or Raleway. ` +
		`It should look modern and unobtrusive.`,
}

// StyleInstruction returns the style clause for the idea prompt. Unknown
// styles get a generic clause naming the style.
func StyleInstruction(style models.Style) string {
	if s, ok := styleInstructions[style]; ok {
		return s
	}
	return fmt.Sprintf(`in a "%s" style.`, style)
}

// TypographyInstruction returns the font description for overlay text, or
// "" for an unknown typography.
func TypographyInstruction(t models.Typography) string {
	return typographyInstructions[t]
}

// OverlayInstruction returns the overlay directive followed by the
// typography description. It is empty when overlayText is empty.
func OverlayInstruction(overlayText string, t models.Typography) string {
	if overlayText == "" {
		return ""
	}
	s := fmt.Sprintf(` The image must have the text "%s" elegantly overlaid.`, overlayText)
	if ti := TypographyInstruction(t); ti != "" {
		s += " " + ti
	}
	return s
}

// BrandingInstruction returns the branding-bar directive. It is empty unless
// both website and brandColor are set.
func BrandingInstruction(website, brandColor string) string {
	if website == "" || brandColor == "" {
		return ""
	}
	return fmt.Sprintf(` At the bottom, add a simple, elegant branding bar with a semi-transparent background color of %s. `+
		`This bar should contain the text "%s" in a clean, legible font that contrasts with the background `+
		`(e.g., white text on a dark bar, black text on a light bar).`, brandColor, website)
}

// Ideas builds the prompt asking for IdeaCount pin concepts as a JSON array.
func Ideas(topic, url string, style models.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following topic and URL, generate %d distinct, visually compelling concepts for Pinterest pins %s\n",
		IdeaCount, StyleInstruction(style))
	b.WriteString("For each concept, provide a detailed visual description suitable for an image generation AI.\n")
	b.WriteString("The description should account for a potential text overlay, so leave appropriate negative space or a clear area for text.\n")
	b.WriteString("Focus on creating aesthetically pleasing, high-quality, and engaging visuals that would perform well on Pinterest.\n\n")
	fmt.Fprintf(&b, "Topic: %q\n", topic)
	fmt.Fprintf(&b, "URL: %q\n\n", url)
	fmt.Fprintf(&b, "Return the output as a JSON array of %d strings.", IdeaCount)
	return b.String()
}

// Image extends a concept with the overlay and branding directives. The
// concept already carries the style chosen at idea time, so the order is
// concept, overlay/typography, branding.
func Image(concept, overlayText, website string, t models.Typography, brandColor string) string {
	return concept + OverlayInstruction(overlayText, t) + BrandingInstruction(website, brandColor)
}

// ImageRequest wraps a final image prompt for an image-bearing model call.
func ImageRequest(finalPrompt string) string {
	return fmt.Sprintf("Generate an image based on this description: %s. Aspect ratio 9:16.", finalPrompt)
}

// Description asks for a plain-text rendering of the image, used when the
// model cannot return image data.
func Description(finalPrompt string) string {
	return fmt.Sprintf("Describe, in one vivid paragraph of plain text, the Pinterest pin image you would create "+
		"for the following description. Do not use markdown.\n\nDescription: %s", finalPrompt)
}

// BrandColors asks for the three primary brand colors of fullURL, with the
// default palette as the model's own fallback.
func BrandColors(fullURL string, fallback []string) string {
	quoted := make([]string, len(fallback))
	for i, c := range fallback {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	var b strings.Builder
	b.WriteString("You are a web design assistant. Analyze the website at the following URL and identify its primary brand colors.\n")
	b.WriteString("Return a JSON array of 3 hex color codes, starting with the most prominent color.\n")
	fmt.Fprintf(&b, "If the URL is invalid, inaccessible, or you cannot determine the colors, return a default palette: [%s].\n",
		strings.Join(quoted, ", "))
	fmt.Fprintf(&b, "URL: %q", fullURL)
	return b.String()
}
