package tui

import "quiz-arena/internal/domain"

// Screen is the presentation state built up by applying game commands.
type Screen struct {
	Name    string
	Texts   map[string]string
	Visible map[string]bool
	Enabled map[string]bool
	Colors  map[string]string
	Music   string
	Effects []string
	Volume  float64
}

const maxEffects = 8

func NewScreen() *Screen {
	s := &Screen{Volume: 1}
	s.reset(domain.ScreenTitle)
	return s
}

func (s *Screen) reset(name string) {
	s.Name = name
	s.Texts = make(map[string]string)
	s.Visible = make(map[string]bool)
	s.Enabled = make(map[string]bool)
	s.Colors = make(map[string]string)
}

// Apply executes commands in order.
func (s *Screen) Apply(cmds []domain.Command) {
	for _, c := range cmds {
		switch c.Kind {
		case domain.CmdSetText:
			s.Texts[c.Target] = c.Text
		case domain.CmdSetVisible:
			s.Visible[c.Target] = c.On
		case domain.CmdSetInteractable:
			s.Enabled[c.Target] = c.On
		case domain.CmdSetColor:
			s.Colors[c.Target] = c.Text
		case domain.CmdPlayMusic:
			s.Music = c.Target
		case domain.CmdStopAudio:
			s.Music = ""
		case domain.CmdPlayEffect:
			s.Effects = append(s.Effects, c.Target)
			if len(s.Effects) > maxEffects {
				s.Effects = s.Effects[len(s.Effects)-maxEffects:]
			}
		case domain.CmdSetVolume:
			s.Volume = c.Volume
		case domain.CmdLoadScreen:
			s.reset(c.Target)
		}
	}
}

// LastEffect is the most recent sound cue, or "".
func (s *Screen) LastEffect() string {
	if len(s.Effects) == 0 {
		return ""
	}
	return s.Effects[len(s.Effects)-1]
}

// InGame reports whether a run is on screen.
func (s *Screen) InGame() bool {
	return s.Visible[domain.NodeQuestionPanel] || s.Visible[domain.NodeGameOverPanel]
}
