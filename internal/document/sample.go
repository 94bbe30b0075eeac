package document

import "fmt"

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// NewEmptyContent returns the markup of a blank document.
func NewEmptyContent(width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d"></svg>`,
		width, height, width, height)
}

// NewSampleContent returns a small document exercising every editable shape.
func NewSampleContent() string {
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600" width="800" height="600">
  <rect id="backdrop" x="40" y="40" width="240" height="160" fill="#1a1a2e" stroke="#e94560" stroke-width="4"/>
  <circle id="sun" cx="420" cy="120" r="60" fill="#f5c518"/>
  <ellipse id="lake" cx="620" cy="140" rx="110" ry="50" fill="#4a90d9"/>
  <line id="horizon" x1="40" y1="300" x2="760" y2="300" stroke="#333" stroke-width="3"/>
  <polygon id="mountain" points="80,520 220,340 360,520" fill="#6b8e23"/>
  <polyline id="trail" points="400,520 470,450 540,490 610,400" fill="none" stroke="#8b4513" stroke-width="4"/>
  <path id="bird" d="M600 250 q20 -30 40 0 q20 -30 40 0" fill="none" stroke="#222" stroke-width="3"/>
  <g id="sign" transform="translate(500,380)">
    <rect x="0" y="0" width="120" height="50" fill="#fff" stroke="#222"/>
    <text x="10" y="32" font-size="20" font-family="sans-serif">Hello</text>
  </g>
</svg>`
}
