package classify

import "testing"

func TestDetect_Photos(t *testing.T) {
	names := []string{
		"IMG_0001.jpg",
		"holiday.JPEG",
		"screenshot.png",
		"scan.tiff",
		"phone.HEIC",
		"anim.gif",
	}
	for _, name := range names {
		if kind := Detect(name); kind != KindPhoto {
			t.Errorf("Detect(%q) = %q, want %q", name, kind, KindPhoto)
		}
	}
}

func TestDetect_Videos(t *testing.T) {
	names := []string{
		"clip.mp4",
		"GOPRO.MOV",
		"series.mkv",
		"old.avi",
		"cam.webm",
	}
	for _, name := range names {
		if kind := Detect(name); kind != KindVideo {
			t.Errorf("Detect(%q) = %q, want %q", name, kind, KindVideo)
		}
	}
}

func TestDetect_NonMedia(t *testing.T) {
	names := []string{
		"notes.txt",
		"index.html",
		"archive.zip",
		"noextension",
		"music.mp3",
	}
	for _, name := range names {
		if kind := Detect(name); kind != KindNone {
			t.Errorf("Detect(%q) = %q, want %q", name, kind, KindNone)
		}
	}
}

func TestDetect_NoiseRejectedBeforeExtension(t *testing.T) {
	// OS droppings and partial writes lose even with a media extension.
	names := []string{
		".DS_Store",
		"Thumbs.db",
		"desktop.ini",
		"photo.jpg.tmp",
		"movie.mp4.part",
		"download.jpg.crdownload",
	}
	for _, name := range names {
		if kind := Detect(name); kind != KindNone {
			t.Errorf("Detect(%q) = %q, want %q", name, kind, KindNone)
		}
	}
}

func TestShouldIgnore(t *testing.T) {
	if !ShouldIgnore(".DS_Store") {
		t.Error("Expected .DS_Store to be ignored")
	}
	if !ShouldIgnore("upload.part") {
		t.Error("Expected .part suffix to be ignored")
	}
	if ShouldIgnore("IMG_0001.jpg") {
		t.Error("Expected regular photo name not to be ignored")
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		".jpg":  "image/jpeg",
		".heic": "image/heic",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
	}
	for ext, want := range cases {
		if got := MimeType(ext); got != want {
			t.Errorf("MimeType(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestMimeType_Unknown(t *testing.T) {
	if got := MimeType(".nosuchext"); got != "application/octet-stream" {
		t.Errorf("Expected application/octet-stream for unknown extension, got %q", got)
	}
}
