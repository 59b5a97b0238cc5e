package vaire

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/esimov/vaire/utils"
)

// minFaceQuality is the detection score below which a face candidate
// returned by the cascade is ignored.
const minFaceQuality = 5.0

// faceDetector wraps the pigo classifier and runs it over luminance frames.
// The detected regions get an energy boost so the seams route around faces
// instead of cutting through them.
type faceDetector struct {
	classifier *pigo.Pigo
	angle      float64
}

// newFaceDetector reads the binary cascade file and unpacks the classifier.
func newFaceDetector(cascadePath string, angle float64) (*faceDetector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("error reading the cascade file: %w", err)
	}

	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}

	return &faceDetector{
		classifier: classifier,
		angle:      angle,
	}, nil
}

// detect runs the cascade over the frame and returns the rectangles of the
// clustered detections. The frame is already a grayscale pixel array, which
// is exactly what the classifier consumes.
func (d *faceDetector) detect(f *Frame) []image.Rectangle {
	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     utils.Max(f.Width, f.Height),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,

		ImageParams: pigo.ImageParams{
			Pixels: f.Pix,
			Rows:   f.Height,
			Cols:   f.Width,
			Dim:    f.Width,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	// The result contains quadruplets representing the row, column, scale and detection score.
	faces := d.classifier.RunCascade(cParams, d.angle)

	// Calculate the intersection over union (IoU) of two clusters.
	faces = d.classifier.ClusterDetections(faces, 0.2)

	rects := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		if face.Q > minFaceQuality {
			rects = append(rects, image.Rect(
				face.Col-face.Scale/2,
				face.Row-face.Scale/2,
				face.Col+face.Scale/2,
				face.Row+face.Scale/2,
			))
		}
	}
	return rects
}
