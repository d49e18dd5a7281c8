package recommend

// Theme carries the color tokens used to style the result screen. Gradients
// from the web palette collapse to their first stop in a terminal.
type Theme struct {
	Name          string
	Background    string
	PrimaryText   string
	SecondaryText string
	Accent        string
	Accent2       string
	Accent3       string
	Border        string
	ButtonBg      string
	ButtonText    string
	IconBorder    string
	Glow          string
	Ornament      string
	BadgeBg       string
	BadgeText     string
}

var baileys = Theme{
	Name:          "baileys",
	Background:    "#1A0F0A",
	PrimaryText:   "#F5E6D3",
	SecondaryText: "#E6D8C6",
	Accent:        "#D4AF37",
	Accent2:       "#C9A961",
	Accent3:       "#B8956A",
	Border:        "#D4AF37",
	ButtonBg:      "#D4AF37",
	ButtonText:    "#1A0F0A",
	IconBorder:    "#D4AF37",
	Glow:          "#8A7330",
	Ornament:      "#D4AF37",
	BadgeBg:       "#C9A961",
	BadgeText:     "#1A0F0A",
}

// DefaultTheme is used for every verdict.
func DefaultTheme() Theme {
	return baileys
}
