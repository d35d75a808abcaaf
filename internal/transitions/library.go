// Package transitions provides position-to-position transition narratives.
// The built-in library covers every ordered pair of the five setup positions,
// self-pairs included, so a lookup can never miss; rows from the catalogue
// collaborator override built-ins.
package transitions

import "github.com/meltforce/matseq/internal/domain"

// Narrative is a single transition override: the cue an instructor gives to move
// from one setup position to another.
type Narrative struct {
	From domain.Position `json:"from"`
	To   domain.Position `json:"to"`
	Text string          `json:"narrative"`
}

// Library resolves transition narratives by (from, to) position pair.
type Library struct {
	narratives map[[2]domain.Position]string
}

// Defaults returns a Library seeded with the built-in narrative for every
// position pair.
func Defaults() *Library {
	l := &Library{narratives: make(map[[2]domain.Position]string, len(builtins))}
	for _, n := range builtins {
		l.narratives[[2]domain.Position{n.From, n.To}] = n.Text
	}
	return l
}

// Apply replaces built-in narratives with the given overrides.
func (l *Library) Apply(overrides []Narrative) {
	for _, n := range overrides {
		if n.Text == "" || !n.From.Valid() || !n.To.Valid() {
			continue
		}
		l.narratives[[2]domain.Position{n.From, n.To}] = n.Text
	}
}

// Narrative returns the cue for moving from one position to another. Unknown
// pairs fall back to the self-pair cue for the destination, so the result is
// never empty for valid positions.
func (l *Library) Narrative(from, to domain.Position) string {
	if text, ok := l.narratives[[2]domain.Position{from, to}]; ok {
		return text
	}
	return l.narratives[[2]domain.Position{to, to}]
}

// All returns every narrative in the library.
func (l *Library) All() []Narrative {
	out := make([]Narrative, 0, len(l.narratives))
	for _, from := range domain.Positions() {
		for _, to := range domain.Positions() {
			if text, ok := l.narratives[[2]domain.Position{from, to}]; ok {
				out = append(out, Narrative{From: from, To: to, Text: text})
			}
		}
	}
	return out
}

var builtins = []Narrative{
	// From supine
	{domain.PositionSupine, domain.PositionSupine, "Stay on your back, reset your neutral pelvis and lengthen through the crown of the head."},
	{domain.PositionSupine, domain.PositionProne, "Hug your knees in, roll to one side, and continue over onto your stomach, forehead resting on the mat."},
	{domain.PositionSupine, domain.PositionKneeling, "Roll up through your spine, swing your legs under you, and come up tall onto your knees."},
	{domain.PositionSupine, domain.PositionSeated, "Reach your arms overhead and roll up one vertebra at a time to a tall seated position."},
	{domain.PositionSupine, domain.PositionSideLying, "Draw your knees together and roll onto your side, bottom arm long under your ear."},

	// From prone
	{domain.PositionProne, domain.PositionSupine, "Press back to your heels for a breath, then roll through one side onto your back."},
	{domain.PositionProne, domain.PositionProne, "Stay on your stomach, re-lengthen your legs and draw your abdominals away from the mat."},
	{domain.PositionProne, domain.PositionKneeling, "Press into your hands, push back onto all fours, and lift your chest to kneel upright."},
	{domain.PositionProne, domain.PositionSeated, "Push back through all fours and swing your legs around to sit tall, legs extended."},
	{domain.PositionProne, domain.PositionSideLying, "Tuck one arm under and roll onto that side, stacking your shoulders and hips."},

	// From kneeling
	{domain.PositionKneeling, domain.PositionSupine, "Sit back to one hip, extend your legs, and roll down through your spine onto your back."},
	{domain.PositionKneeling, domain.PositionProne, "Walk your hands forward and lower yourself with control onto your stomach."},
	{domain.PositionKneeling, domain.PositionKneeling, "Stay kneeling, re-stack your shoulders over your hips and grow an inch taller."},
	{domain.PositionKneeling, domain.PositionSeated, "Swing your legs out to one side and come to sit tall on your sit bones."},
	{domain.PositionKneeling, domain.PositionSideLying, "Lower to one hip and slide down onto your side, legs long and slightly forward."},

	// From seated
	{domain.PositionSeated, domain.PositionSupine, "Walk your hands back and roll down through your spine with control onto your back."},
	{domain.PositionSeated, domain.PositionProne, "Turn over your legs through all fours and lower down onto your stomach."},
	{domain.PositionSeated, domain.PositionKneeling, "Fold your legs under you and rise up tall onto your knees."},
	{domain.PositionSeated, domain.PositionSeated, "Stay seated, re-stack your spine and press your sit bones into the mat."},
	{domain.PositionSeated, domain.PositionSideLying, "Lean onto one forearm and lower to your side, legs reaching long."},

	// From side-lying
	{domain.PositionSideLying, domain.PositionSupine, "Roll onto your back, knees bent, feet flat, arms long by your sides."},
	{domain.PositionSideLying, domain.PositionProne, "Roll through onto your stomach, legs together, hands stacked under your forehead."},
	{domain.PositionSideLying, domain.PositionKneeling, "Press up through your bottom arm and fold your legs under you to kneel tall."},
	{domain.PositionSideLying, domain.PositionSeated, "Press yourself up to sitting, sweep your legs in front and sit tall."},
	{domain.PositionSideLying, domain.PositionSideLying, "Roll through your back to the other side, re-stacking shoulders and hips."},
}
