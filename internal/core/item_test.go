package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewItem_InitialState(t *testing.T) {
	item := NewReviewItem("01TEST", "images/01TEST.jpg", "worksheet.jpg")

	assert.Equal(t, "01TEST", item.ID)
	assert.Equal(t, "images/01TEST.jpg", item.ImageRef)
	assert.Equal(t, "worksheet.jpg", item.SourceFileName)
	assert.Equal(t, StatusProcessing, item.Status)
	assert.Equal(t, 0, item.Progress)
	assert.Empty(t, item.Transcription)
	assert.Empty(t, item.ErrorMessage)
	assert.Empty(t, item.Subject)
	assert.Empty(t, item.Notes)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusError.Terminal())
}

func TestReviewItem_CloneIsIndependent(t *testing.T) {
	item := NewReviewItem("01TEST", "ref", "file.jpg")
	clone := item.Clone()

	clone.Subject = "Math"
	clone.Progress = 50

	assert.Empty(t, item.Subject)
	assert.Equal(t, 0, item.Progress)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := NewID()
		require.Len(t, id, 26, "ULIDs are 26 characters")
		require.False(t, seen[id], "id %q generated twice", id)
		seen[id] = true
	}
}

func TestReviewItem_ProgressNotSerialized(t *testing.T) {
	item := NewReviewItem("01TEST", "ref", "file.jpg")
	item.Progress = 60

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "60")

	var decoded ReviewItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0, decoded.Progress)
}
