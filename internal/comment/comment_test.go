package comment

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestReview_WithChanges(t *testing.T) {
	body := Review("Two issues found.", []FileDiff{
		{
			Path: "auth.go",
			Diff: "--- original\n+++ updated\n@@ -1,2 +1,2 @@\n a\n-b\n+c\n",
		},
		{
			Path: "db/conn.go",
			Diff: "--- original\n+++ updated\n@@ -1 +1 @@\n-x\n+y\n",
		},
	})
	newGoldie(t).Assert(t, "review_with_changes", []byte(body))
}

func TestReview_NoChanges(t *testing.T) {
	body := Review("", nil)
	newGoldie(t).Assert(t, "review_no_changes", []byte(body))
}

func TestReview_DefaultAnalysis(t *testing.T) {
	body := Review("", nil)
	assert.Contains(t, body, "> No analysis provided by the AI.")
}

func TestReview_DiffInsideFence(t *testing.T) {
	body := Review("ok", []FileDiff{{Path: "a.go", Diff: "-old\n+new\n"}})
	assert.True(t, strings.Contains(body, "```diff\n-old\n+new\n\n```"),
		"diff must sit inside a diff code fence: %q", body)
	assert.Contains(t, body, "<summary><code>a.go</code></summary>")
}

func TestAborted(t *testing.T) {
	body := Aborted(101, 100)
	assert.Equal(t,
		"### 🛡️ Cloak Action Aborted\n\n**Cost Control**: Analysis aborted. Estimated token count (~101) exceeds budget of 100.",
		body)
}

func TestFailed(t *testing.T) {
	body := Failed(errors.New("job submission failed: status 500"))
	assert.Equal(t,
		"### 🛡️ Cloak Action Failed\n\nAn unexpected error occurred: `job submission failed: status 500`",
		body)
}
