package domain

// CommandKind tags an output command.
type CommandKind string

const (
	CmdPlayEffect      CommandKind = "playEffect"
	CmdPlayMusic       CommandKind = "playMusic"
	CmdStopAudio       CommandKind = "stopAudio"
	CmdSetText         CommandKind = "setText"
	CmdSetVisible      CommandKind = "setVisible"
	CmdSetInteractable CommandKind = "setInteractable"
	CmdSetColor        CommandKind = "setColor"
	CmdLoadScreen      CommandKind = "loadScreen"
	CmdSetVolume       CommandKind = "setVolume"
)

// Command is one instruction for the presentation layer. Which fields are set
// depends on Kind.
type Command struct {
	Kind   CommandKind `json:"kind"`
	Target string      `json:"target,omitempty"`
	Text   string      `json:"text,omitempty"`
	On     bool        `json:"on,omitempty"`
	Volume float64     `json:"volume,omitempty"`
}

// Logical sound identifiers.
const (
	SoundCorrect   = "correct"
	SoundIncorrect = "incorrect"
	SoundVictory   = "victory"
	SoundDefeat    = "defeat"
	SoundClick     = "click"
	SoundTick      = "tick"
)

// Text fields.
const (
	FieldQuestion       = "question"
	FieldQuestionNumber = "questionNumber"
	FieldScore          = "score"
	FieldTimer          = "timer"
	FieldPlayerHealth   = "playerHealth"
	FieldEnemyHealth    = "enemyHealth"
	FieldFinalScore     = "finalScore"
	FieldTotalScore     = "totalScore"
)

// Nodes that can be shown or hidden.
const (
	NodeQuestionPanel = "questionPanel"
	NodeGameOverPanel = "gameOverPanel"
	NodeSuccessText   = "successText"
	NodeFailText      = "failText"
	NodeRestartButton = "restartButton"
	NodeMenuButton    = "mainMenuButton"
	NodeProceedButton = "proceedButton"
)

// Answer button colours.
const (
	ColorNormal  = "normal"
	ColorCorrect = "correct"
	ColorWrong   = "wrong"
)

// Screens reachable through LoadScreen.
const (
	ScreenTitle   = "TitleScreen"
	ScreenResults = "Results"
)

// AnswerControl names the button for option i.
func AnswerControl(i int) string {
	return "answer" + string(rune('0'+i))
}

func PlayEffect(id string) Command { return Command{Kind: CmdPlayEffect, Target: id} }

func PlayMusic(id string) Command { return Command{Kind: CmdPlayMusic, Target: id} }

func StopAudio() Command { return Command{Kind: CmdStopAudio} }

func SetText(field, value string) Command {
	return Command{Kind: CmdSetText, Target: field, Text: value}
}

func SetVisible(node string, on bool) Command {
	return Command{Kind: CmdSetVisible, Target: node, On: on}
}

func SetInteractable(control string, on bool) Command {
	return Command{Kind: CmdSetInteractable, Target: control, On: on}
}

func SetColor(control, color string) Command {
	return Command{Kind: CmdSetColor, Target: control, Text: color}
}

func LoadScreen(name string) Command { return Command{Kind: CmdLoadScreen, Target: name} }

func SetVolume(v float64) Command { return Command{Kind: CmdSetVolume, Volume: v} }
