package i18n

import (
	"errors"
	"fmt"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

// Labels holds every user-facing string of the shells
type Labels struct {
	WindowTitle       string
	TextPrompt        string
	FileNamePrompt    string
	FileNameHint      string
	VoicePrompt       string
	GenerateAction    string
	PlayAction        string
	SaveAction        string
	SaveDialogTitle   string
	AudioFilter       string
	Warning           string
	Success           string
	Error             string
	EmptyText         string
	Generated         string
	GenerateFailed    string
	NoAudio           string
	NothingToSave     string
	Saved             string
	SaveFailed        string
	Busy              string
	StartupLogWritten string
}

// English is the default catalog
var English = Labels{
	WindowTitle:       "Text-to-Speech Application",
	TextPrompt:        "Enter text to convert to speech:",
	FileNamePrompt:    "Enter the file name to save (no extension):",
	FileNameHint:      "Default file name: speech",
	VoicePrompt:       "Select a voice:",
	GenerateAction:    "Generate Speech",
	PlayAction:        "Play Speech",
	SaveAction:        "Save Speech File",
	SaveDialogTitle:   "Save Speech File",
	AudioFilter:       "Audio Files (*.mp3)",
	Warning:           "Warning",
	Success:           "Success",
	Error:             "Error",
	EmptyText:         "Please enter text!",
	Generated:         "Speech generated successfully! File saved to: %s",
	GenerateFailed:    "Failed to generate speech: %v",
	NoAudio:           "Audio file does not exist. Please generate speech first!",
	NothingToSave:     "No generated speech file to save!",
	Saved:             "File saved to: %s",
	SaveFailed:        "Failed to save file: %v",
	Busy:              "A speech request is already in progress.",
	StartupLogWritten: "Error log saved to: %s",
}

// Chinese is the zh catalog
var Chinese = Labels{
	WindowTitle:       "Text-to-Speech Application",
	TextPrompt:        "请输入要转换为语音的文本：",
	FileNamePrompt:    "请输入保存的文件名（无需扩展名）：",
	FileNameHint:      "默认文件名：speech",
	VoicePrompt:       "请选择音色：",
	GenerateAction:    "生成语音",
	PlayAction:        "播放语音",
	SaveAction:        "保存语音文件",
	SaveDialogTitle:   "保存语音文件",
	AudioFilter:       "音频文件 (*.mp3)",
	Warning:           "警告",
	Success:           "成功",
	Error:             "错误",
	EmptyText:         "请输入文本内容！",
	Generated:         "语音生成成功！文件保存至：%s",
	GenerateFailed:    "生成语音失败：%v",
	NoAudio:           "音频文件不存在，请先生成语音！",
	NothingToSave:     "没有生成的语音文件可保存！",
	Saved:             "文件已保存至：%s",
	SaveFailed:        "保存文件失败：%v",
	Busy:              "已有语音请求正在进行中。",
	StartupLogWritten: "错误日志已保存至：%s",
}

// For returns the catalog of locale, falling back to English
func For(locale string) Labels {
	switch locale {
	case "zh", "zh-CN", "zh_CN":
		return Chinese
	default:
		return English
	}
}

// GenerateMessage renders the outcome of a Generate action
func (l Labels) GenerateMessage(path string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(l.Generated, path)
	case errors.Is(err, entities.ErrEmptyText):
		return l.EmptyText
	case errors.Is(err, entities.ErrBusy):
		return l.Busy
	default:
		return fmt.Sprintf(l.GenerateFailed, err)
	}
}

// SaveMessage renders the outcome of a Save action
func (l Labels) SaveMessage(path string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf(l.Saved, path)
	case errors.Is(err, entities.ErrNotFound):
		return l.NothingToSave
	default:
		return fmt.Sprintf(l.SaveFailed, err)
	}
}

// PlayMessage renders a failed Play action
func (l Labels) PlayMessage(err error) string {
	if errors.Is(err, entities.ErrNotFound) {
		return l.NoAudio
	}
	return err.Error()
}
