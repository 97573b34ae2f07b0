package utils

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	log1 "github.com/charmbracelet/log"
)

var (
	Info  = log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lshortfile)
	Error = log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lshortfile)
)

var Print *log1.Logger

func badge(text, bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(text).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).Bold(true)
}

// Init 初始化全局 Print；level 为 debug/info/warn/error，无法解析时退回 info
func Init(level string) *log1.Logger {
	Print = New(os.Stderr, level)
	return Print
}

func New(w io.Writer, level string) *log1.Logger {
	lv, err := log1.ParseLevel(level)
	if err != nil {
		lv = log1.InfoLevel
	}
	l := log1.NewWithOptions(w, log1.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lv,
		Prefix:          "🃏",
	})

	styles := log1.DefaultStyles()
	styles.Levels[log1.DebugLevel] = badge("DEBUG", "#44444480", "#AAAAAAFF")
	styles.Levels[log1.InfoLevel] = badge("INFO♠", "#90EE9080", "#006400FF")
	styles.Levels[log1.WarnLevel] = badge("WARN♦", "#FFD70080", "#000000FF")
	styles.Levels[log1.ErrorLevel] = badge("ERROR♥", "#FF0000FF", "#00FFFF00")
	styles.Levels[log1.FatalLevel] = badge("FATAL♣", "#000000FF", "#00FFFF00")
	l.SetStyles(styles)
	return l
}
