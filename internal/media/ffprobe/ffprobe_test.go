package ffprobe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "codec_name": "aac"},
    {"index": 1, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080,
     "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001", "nb_frames": "1800", "duration": "60.06"}
  ],
  "format": {"filename": "clip.mp4", "nb_streams": 2, "duration": "60.06", "size": "1000", "format_name": "mov,mp4"}
}`

// Portrait phone recording: coded landscape, displayed after a quarter turn.
const rotatedPayload = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "hevc", "width": 1920, "height": 1080,
     "avg_frame_rate": "30/1", "nb_frames": "300",
     "side_data_list": [
       {"side_data_type": "Display Matrix", "displaymatrix": "\n00000000:            0       65536           0\n", "rotation": -90}
     ]}
  ],
  "format": {"duration": "10.0"}
}`

func TestParseVideoHelpers(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	require.NoError(t, err)

	stream, ok := result.VideoStream()
	require.True(t, ok)
	assert.Equal(t, 1920, stream.Width)
	assert.Equal(t, 1080, stream.Height)
	assert.Equal(t, 0, stream.Rotation())
	assert.Equal(t, 1, result.VideoStreamCount())
	assert.InDelta(t, 29.97, result.FrameRate(), 0.01)
	assert.Equal(t, 1800, result.FrameCount())
	assert.Equal(t, int64(1000), result.SizeBytes())
}

func TestRotationFromDisplayMatrix(t *testing.T) {
	result, err := Parse([]byte(rotatedPayload))
	require.NoError(t, err)

	stream, ok := result.VideoStream()
	require.True(t, ok)
	assert.Equal(t, 1920, stream.Width)
	assert.Equal(t, 90, stream.Rotation())
}

func TestRotationSources(t *testing.T) {
	cases := map[string]struct {
		stream Stream
		want   int
	}{
		"rotate tag":          {Stream{Tags: map[string]string{"rotate": "90"}}, 90},
		"tag wins":            {Stream{Tags: map[string]string{"rotate": "180"}, SideDataList: []SideData{{SideDataType: "Display Matrix", Rotation: -90}}}, 180},
		"counter clockwise":   {Stream{SideDataList: []SideData{{SideDataType: "Display Matrix", Rotation: 90}}}, 270},
		"half turn":           {Stream{SideDataList: []SideData{{SideDataType: "Display Matrix", Rotation: -180}}}, 180},
		"full turn":           {Stream{Tags: map[string]string{"rotate": "360"}}, 0},
		"unparsable tag":      {Stream{Tags: map[string]string{"rotate": "sideways"}, SideDataList: []SideData{{SideDataType: "Display Matrix", Rotation: -270}}}, 270},
		"other side data":     {Stream{SideDataList: []SideData{{SideDataType: "Stereo 3D", Rotation: 90}}}, 0},
		"no rotation present": {Stream{}, 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.stream.Rotation())
		})
	}
}

func TestFrameCountFallsBackToDuration(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "25/1"}},
		Format:  Format{Duration: "4.0"},
	}
	assert.Equal(t, 25.0, result.FrameRate(), "expected r_frame_rate fallback")
	assert.Equal(t, 100, result.FrameCount())
}

func TestHelpersWithoutVideo(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}, Format: Format{Duration: "bad", Size: "-1"}}
	assert.Zero(t, result.FrameRate())
	assert.Zero(t, result.FrameCount())
	assert.True(t, math.IsNaN(result.DurationSeconds()))
	assert.Zero(t, result.SizeBytes())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}
