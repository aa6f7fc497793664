package media

// Fallback media used when a scene has nothing generated yet.
var (
	SampleVideos = []Asset{
		{ID: "video1", Kind: AssetVideo, URL: "https://cdn.designcombo.dev/videos/demo-video-1.mp4", Name: "Demo Video 1"},
		{ID: "video2", Kind: AssetVideo, URL: "https://cdn.designcombo.dev/videos/demo-video-2.mp4", Name: "Demo Video 2"},
	}
	SampleAudio = []Asset{
		{ID: "audio1", Kind: AssetAudio, URL: "https://cdn.designcombo.dev/audio/Hope.mp3", Name: "Hope"},
		{ID: "audio2", Kind: AssetAudio, URL: "https://cdn.designcombo.dev/audio/Piano%20Moment.mp3", Name: "Piano Moment"},
	}
)
