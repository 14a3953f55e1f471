package service

import (
	"strings"
	"testing"

	"github.com/golivishiva/Digital-Notice-Board/cons"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		title, content, want string
	}{
		{"Midterm schedule", "Room 101", cons.CategoryExams},
		{"Winter Vacation", "Campus closed", cons.CategoryHolidays},
		{"Football Tournament", "Join us", cons.CategorySports},
		{"Annual Fest", "Music and food", cons.CategoryEvents},
		{"URGENT: water supply", "No water today", cons.CategoryEmergency},
		{"Library hours", "Open 9 to 5", cons.CategoryGeneral},
		// 先命中的规则优先
		{"Emergency exam reschedule", "", cons.CategoryExams},
		// 子串匹配
		{"Latest updates", "", cons.CategoryExams},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Categorize(c.title, c.content), "%s / %s", c.title, c.content)
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "Hello world", Summarize("  <p>Hello <b>world</b></p>  "))

	exact := strings.Repeat("a", 150)
	assert.Equal(t, exact, Summarize(exact))

	long := strings.Repeat("b", 151)
	got := Summarize(long)
	assert.Equal(t, strings.Repeat("b", 147)+"...", got)

	// 按字符而不是字节截断
	multi := strings.Repeat("通", 200)
	got = Summarize(multi)
	assert.Equal(t, strings.Repeat("通", 147)+"...", got)
}
