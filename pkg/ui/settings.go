package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rankdeck/rankdeck/pkg/model"
)

// settingsForm is the scheduled-sync settings overlay. It wraps a huh
// form so field navigation and validation come for free.
type settingsForm struct {
	form     *huh.Form
	enabled  bool
	syncTime string
	last     string
}

// newSettingsForm returns a pointer because the huh fields bind to the
// struct's fields; a copy would detach them.
func newSettingsForm(s model.SyncSettings) *settingsForm {
	f := &settingsForm{
		enabled:  s.Enabled,
		syncTime: s.SyncTime,
		last:     s.LastSyncInfo,
	}
	if f.syncTime == "" {
		f.syncTime = "08:00"
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("定时同步").
				Description("每天在指定时间自动抓取全部来源").
				Value(&f.enabled).
				Affirmative("开启").
				Negative("关闭"),
			huh.NewInput().
				Title("同步时间").
				Description("24 小时制 HH:MM").
				Value(&f.syncTime).
				Validate(validateSyncTime),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
	return f
}

func (f *settingsForm) Init() tea.Cmd {
	return f.form.Init()
}

func (f *settingsForm) Update(msg tea.Msg) (*settingsForm, tea.Cmd) {
	updated, cmd := f.form.Update(msg)
	if form, ok := updated.(*huh.Form); ok {
		f.form = form
	}
	return f, cmd
}

func (f *settingsForm) Done() bool {
	return f.form.State == huh.StateCompleted
}

func (f *settingsForm) Cancelled() bool {
	return f.form.State == huh.StateAborted
}

func (f *settingsForm) Result() model.SyncSettings {
	return model.SyncSettings{
		Enabled:      f.enabled,
		SyncTime:     strings.TrimSpace(f.syncTime),
		LastSyncInfo: f.last,
	}
}

func (f *settingsForm) View() string {
	body := f.form.View()
	if f.last != "" {
		body += "\n" + mutedStyle.Render("上次同步: "+f.last)
	}
	return panelStyle.Render(panelTitleStyle.Render("同步设置") + "\n\n" + body)
}

func validateSyncTime(s string) error {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return fmt.Errorf("格式应为 HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return fmt.Errorf("小时应在 0-23 之间")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return fmt.Errorf("分钟应在 0-59 之间")
	}
	return nil
}
