package gallery

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"https://cdn.example.com/walkthrough.mp4", KindVideo},
		{"https://cdn.example.com/walkthrough.webm", KindVideo},
		{"https://res.cloudinary.com/demo/image/upload/f_auto/q_auto/renders/a", KindImage},
		{"https://cdn.example.com/photo.jpg", KindImage},
		{"https://cdn.example.com/clip.mp4?download=1", KindImage},
		{"", KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := KindOf(tt.src); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestIsVideo(t *testing.T) {
	if !IsVideo("tour.webm") {
		t.Error("expected webm to be a video")
	}
	if IsVideo("tour.png") {
		t.Error("expected png to be an image")
	}
}
