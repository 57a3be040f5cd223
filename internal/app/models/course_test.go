package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeRatingRoundsToOneDecimal(t *testing.T) {
	cases := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{"no reviews", nil, 0},
		{"single", []float64{4}, 4},
		{"repeating decimal", []float64{5, 4, 4}, 4.3},
		{"rounds half up", []float64{4, 5, 5, 4}, 4.5},
		{"two thirds", []float64{1, 1, 2}, 1.3},
		{"high mean", []float64{5, 5, 4}, 4.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Course{}
			for i, r := range tc.ratings {
				c.AddReview(Review{User: UserSummary{ID: int64(i + 1)}, Rating: r})
			}
			c.RecomputeRating()
			assert.Equal(t, tc.want, c.Ratings)
		})
	}
}

func TestHasReviewFrom(t *testing.T) {
	c := &Course{}
	c.AddReview(Review{ID: "r1", User: UserSummary{ID: 7}, Rating: 5})

	assert.True(t, c.HasReviewFrom(7))
	assert.False(t, c.HasReviewFrom(8))
	assert.NotNil(t, c.FindReview("r1"))
	assert.Nil(t, c.FindReview("missing"))
}

func TestFindContentReturnsPointerIntoCourse(t *testing.T) {
	c := &Course{CourseData: []CourseContent{{ID: "a"}, {ID: "b"}}}

	content := c.FindContent("b")
	require.NotNil(t, content)
	content.Questions = append(content.Questions, Comment{ID: "q1", Comment: "why?"})

	assert.Len(t, c.CourseData[1].Questions, 1)
	assert.NotNil(t, c.CourseData[1].FindQuestion("q1"))
	assert.Nil(t, c.FindContent("zzz"))
}

func TestPreviewOmitsBuyerOnlyFields(t *testing.T) {
	c := &Course{
		ID:   1,
		Name: "Go",
		CourseData: []CourseContent{{
			ID:         "c1",
			Title:      "Intro",
			VideoURL:   "secret-video",
			Suggestion: "watch twice",
			Links:      []Link{{Title: "docs", URL: "https://go.dev"}},
			Questions:  []Comment{{ID: "q"}},
		}},
	}

	raw, err := json.Marshal(c.Preview())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	items := decoded["courseData"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)

	assert.Equal(t, "Intro", item["title"])
	for _, key := range []string{"videoUrl", "suggestion", "links", "questions"} {
		assert.NotContains(t, item, key)
	}
}

func TestUserIsEnrolled(t *testing.T) {
	u := &User{Courses: []EnrolledCourse{{CourseID: 3}}}
	assert.True(t, u.IsEnrolled(3))
	assert.False(t, u.IsEnrolled(4))
}
