package ai

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"
	"visionguard/internal/logger"
	"visionguard/internal/models"

	"gocv.io/x/gocv"
)

const (
	inputSize = 300 // SSD MobileNet input resolution

	// minRawConfidence is the noise floor below which SSD output rows are
	// discarded. Everything above it is part of the raw detection set
	// handed to the alert evaluator.
	minRawConfidence = 0.05
)

// Detector wraps a single gocv DNN object-detection network.
// A Detector whose model failed to load stays usable: Detect and Annotate
// short-circuit to empty results without raising.
type Detector struct {
	name       string
	modelPath  string
	configPath string
	labels     map[int]string
	drawFloor  float64
	net        gocv.Net
	loadErr    error
	logger     *logger.Logger
	mu         sync.Mutex // gocv.Net forward passes are not concurrency-safe
}

// NewDetector loads the network from the model and config files.
// A load failure is recorded, logged as a warning, and the detector is
// returned in disabled state instead of failing the whole application.
func NewDetector(name, modelPath, configPath string, labels map[int]string, drawFloor float64, log *logger.Logger) *Detector {
	d := &Detector{
		name:       name,
		modelPath:  modelPath,
		configPath: configPath,
		labels:     labels,
		drawFloor:  drawFloor,
		logger:     log,
	}

	if err := d.initializeNet(); err != nil {
		d.loadErr = err
		log.Warning("Detector %q disabled: %v", name, err)
		return d
	}

	log.Info("Detector %q initialized from %s", name, modelPath)
	return d
}

// initializeNet loads the detection network from the model and config files.
func (d *Detector) initializeNet() error {
	if _, err := os.Stat(d.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", d.modelPath)
	}

	if _, err := os.Stat(d.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", d.configPath)
	}

	net := gocv.ReadNet(d.modelPath, d.configPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return fmt.Errorf("failed to set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return fmt.Errorf("failed to set network target: %w", err)
	}

	d.net = net
	return nil
}

// Name returns the detector's registered name.
func (d *Detector) Name() string {
	return d.name
}

// Enabled reports whether the underlying model loaded successfully.
func (d *Detector) Enabled() bool {
	return d.loadErr == nil
}

// LoadError returns the recorded model load failure, if any.
func (d *Detector) LoadError() error {
	return d.loadErr
}

// Detect runs one forward pass over the image and returns the raw detection
// set in model output order, duplicates allowed. No confidence threshold is
// applied beyond the noise floor; callers filter with models.FilterLabels.
// A disabled detector returns (nil, nil).
func (d *Detector) Detect(imageBytes []byte) ([]models.Detection, error) {
	if !d.Enabled() {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(inputSize, inputSize), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	var results []models.Detection

	// SSD output rows: [batchID, classID, confidence, x1, y1, x2, y2]
	// with coordinates normalized to [0,1].
	outputReshaped := output.Reshape(1, output.Total()/7)
	defer outputReshaped.Close()

	for i := 0; i < outputReshaped.Rows(); i++ {
		confidence := float64(outputReshaped.GetFloatAt(i, 2))
		if confidence < minRawConfidence {
			continue
		}

		classID := int(outputReshaped.GetFloatAt(i, 1))
		x := int(outputReshaped.GetFloatAt(i, 3) * float32(mat.Cols()))
		y := int(outputReshaped.GetFloatAt(i, 4) * float32(mat.Rows()))
		width := int(outputReshaped.GetFloatAt(i, 5)*float32(mat.Cols())) - x
		height := int(outputReshaped.GetFloatAt(i, 6)*float32(mat.Rows())) - y

		results = append(results, models.Detection{
			Label:      d.classLabel(classID),
			Confidence: confidence,
			X:          x,
			Y:          y,
			Width:      width,
			Height:     height,
		})
	}

	return results, nil
}

// Annotate draws boxes and labels for all detections at or above the draw
// floor and returns the result as JPEG bytes. The draw floor is independent
// of the label threshold, so the rendered image can show boxes for
// detections the label list omits. A disabled detector returns (nil, nil).
func (d *Detector) Annotate(imageBytes []byte, detections []models.Detection) ([]byte, error) {
	if !d.Enabled() {
		return nil, nil
	}

	red := color.RGBA{R: 255, G: 0, B: 0, A: 0}

	mat, err := gocv.IMDecode(imageBytes, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	for _, det := range detections {
		if det.Confidence < d.drawFloor {
			continue
		}

		rect := image.Rect(det.X, det.Y, det.X+det.Width, det.Y+det.Height)
		if err := gocv.Rectangle(&mat, rect, red, 2); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %w", err)
		}

		label := fmt.Sprintf("%s (%.2f)", det.Label, det.Confidence)
		pt := image.Pt(det.X, det.Y-5)
		if err := gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, 0.5, red, 1); err != nil {
			return nil, fmt.Errorf("failed to draw text: %w", err)
		}
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	annotated := make([]byte, len(buf.GetBytes()))
	copy(annotated, buf.GetBytes())

	return annotated, nil
}

func (d *Detector) classLabel(classID int) string {
	if label, exists := d.labels[classID]; exists {
		return label
	}
	return fmt.Sprintf("unknown_%d", classID)
}

// Close releases the underlying network.
func (d *Detector) Close() {
	if d.Enabled() {
		d.net.Close()
	}
}
