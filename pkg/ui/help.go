package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# rankdeck 快捷键

## 数据

| 键 | 动作 |
|----|------|
| enter / r | 抓取当前来源榜单 |
| R | 强制抓取（跳过当日缓存） |
| A | 触发全部来源抓取 |
| s / S | 切换来源（含全部来源） |
| g | 切换频道（全部 / 男频 / 女频） |
| p | 切换榜单（全部 / 阅读榜 / 新书榜） |
| c | 循环分类过滤 |

## 浏览

| 键 | 动作 |
|----|------|
| tab, 1, 2 | 切换总览 / 榜单页 |
| v | 切换数据视图（分组 / 热度 / 分类榜） |
| o | 排名序 / 热度序切换（本地重排） |
| h / l | 翻页 |
| j / k | 移动光标（自动预览趋势） |
| t | 立即加载选中书的趋势 |

## 动作

| 键 | 动作 |
|----|------|
| y | 复制书名与链接 |
| E | 导出选中书趋势图（PNG/SVG） |
| D | 导出当前榜单到 SQLite |
| P | 推送当前榜单 |
| x | 同步设置 |
| ? | 关闭本帮助 |
| q | 退出 |
`

// renderHelp renders the markdown help overlay for the given width.
// Falls back to the raw markdown when the renderer cannot be built.
func renderHelp(width int) string {
	wrap := width - 4
	if wrap > 72 {
		wrap = 72
	}
	if wrap < 30 {
		wrap = 30
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
