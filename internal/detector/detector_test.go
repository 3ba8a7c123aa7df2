package detector

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestEyeLandmarks_Centroid(t *testing.T) {
	t.Run("open eye fixture", func(t *testing.T) {
		// The fixture spans x=100..130 symmetrically around y=100
		centroid := OpenEyeLandmarks().Centroid()

		if math.Abs(centroid.X-115) > epsilon {
			t.Errorf("expected centroid X 115, got %f", centroid.X)
		}
		if math.Abs(centroid.Y-100) > epsilon {
			t.Errorf("expected centroid Y 100, got %f", centroid.Y)
		}
	})

	t.Run("collapsed eye", func(t *testing.T) {
		centroid := DegenerateEyeLandmarks().Centroid()

		if centroid.X != 115 || centroid.Y != 100 {
			t.Errorf("expected centroid at collapse point (115,100), got (%f,%f)", centroid.X, centroid.Y)
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns nil face by default", func(t *testing.T) {
		mock := NewMockDetector()

		face, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if face != nil {
			t.Error("expected nil face by default")
		}
	})

	t.Run("returns preset face", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetFace(OpenFace())

		face, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if face == nil {
			t.Fatal("expected a face")
		}
		if face.Score != 0.95 {
			t.Errorf("expected score 0.95, got %f", face.Score)
		}
	})

	t.Run("returns preset error", func(t *testing.T) {
		mock := NewMockDetector()
		wantErr := errors.New("camera unplugged")
		mock.SetError(wantErr)

		_, err := mock.Detect(nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected preset error, got %v", err)
		}
	})

	t.Run("close is a no-op", func(t *testing.T) {
		mock := NewMockDetector()
		if err := mock.Close(); err != nil {
			t.Errorf("unexpected error on close: %v", err)
		}
	})
}

func TestJSONFace_ToFace(t *testing.T) {
	t.Run("full contour converts", func(t *testing.T) {
		// Simulate a service response line
		line := `{"faces":[{"left":[{"x":100,"y":100},{"x":108,"y":95},{"x":122,"y":95},{"x":130,"y":100},{"x":122,"y":105},{"x":108,"y":105}],"right":[{"x":40,"y":100},{"x":48,"y":95},{"x":62,"y":95},{"x":70,"y":100},{"x":62,"y":105},{"x":48,"y":105}],"score":0.9}]}`

		var response struct {
			Faces []jsonFace `json:"faces"`
		}
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if len(response.Faces) != 1 {
			t.Fatalf("expected 1 face, got %d", len(response.Faces))
		}

		face, ok := response.Faces[0].toFace()
		if !ok {
			t.Fatal("expected conversion to succeed")
		}
		if face.Score != 0.9 {
			t.Errorf("expected score 0.9, got %f", face.Score)
		}
		if face.Left[OuterCorner].X != 100 {
			t.Errorf("expected left outer corner X 100, got %f", face.Left[OuterCorner].X)
		}
		if face.Right[InnerCorner].X != 70 {
			t.Errorf("expected right inner corner X 70, got %f", face.Right[InnerCorner].X)
		}
	})

	t.Run("short contour is rejected", func(t *testing.T) {
		f := jsonFace{
			Left:  []jsonPoint{{X: 1, Y: 2}},
			Right: []jsonPoint{{X: 1, Y: 2}},
			Score: 0.9,
		}

		if _, ok := f.toFace(); ok {
			t.Error("expected conversion to fail for incomplete contours")
		}
	})
}

func TestFixtures_EyeGeometry(t *testing.T) {
	// The open fixture must be wider than tall and the closed fixture
	// nearly flat; the EAR tests depend on this geometry.
	open := OpenEyeLandmarks()
	if open[InnerCorner].X-open[OuterCorner].X != 30 {
		t.Error("open eye fixture should be 30px wide")
	}
	if open[LowerOuter].Y-open[UpperOuter].Y != 10 {
		t.Error("open eye fixture should have a 10px lid gap")
	}

	closed := ClosedEyeLandmarks()
	if closed[LowerOuter].Y-closed[UpperOuter].Y != 1 {
		t.Error("closed eye fixture should have a 1px lid gap")
	}
}
