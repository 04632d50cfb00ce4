package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"visionguard/internal/dto"
	"visionguard/internal/logger"
	"visionguard/internal/models"
	"visionguard/internal/repository"
	"visionguard/internal/services/alert"
	"visionguard/internal/services/session"
	"visionguard/internal/services/storage"
)

// ObjectDetector is the capability the manager needs from a detection
// model. Implementations must tolerate a failed model load by returning
// empty results from Detect and Annotate.
type ObjectDetector interface {
	Name() string
	Enabled() bool
	Detect(image []byte) ([]models.Detection, error)
	Annotate(image []byte, detections []models.Detection) ([]byte, error)
}

// AlertPublisher pushes weapon alerts to connected viewers.
type AlertPublisher interface {
	PublishAlert(state models.AlertState, source string)
}

// User-facing per-detector notices. Raw errors never reach the client.
const (
	noticeDetectorDisabled = "Detector is unavailable for this session."
	noticeDetectionFailed  = "Detection failed for this image."
)

// Manager runs one analysis cycle: both detectors over the same image,
// alert evaluation on the weapon detector's raw output, annotation,
// persistence and session update.
type Manager struct {
	detectors      []ObjectDetector
	weaponDetector string // name of the detector feeding the alert evaluator
	evaluator      *alert.Evaluator
	imageStore     *storage.ImageStore
	analysisRepo   repository.AnalysisRepository
	detectionRepo  repository.DetectionRepository
	sessions       *session.Store
	events         AlertPublisher
	threshold      float64
	logger         *logger.Logger
}

func NewManager(
	detectors []ObjectDetector,
	weaponDetector string,
	evaluator *alert.Evaluator,
	imageStore *storage.ImageStore,
	analysisRepo repository.AnalysisRepository,
	detectionRepo repository.DetectionRepository,
	sessions *session.Store,
	events AlertPublisher,
	threshold float64,
	logger *logger.Logger,
) *Manager {
	return &Manager{
		detectors:      detectors,
		weaponDetector: weaponDetector,
		evaluator:      evaluator,
		imageStore:     imageStore,
		analysisRepo:   analysisRepo,
		detectionRepo:  detectionRepo,
		sessions:       sessions,
		events:         events,
		threshold:      threshold,
		logger:         logger,
	}
}

// Analyze runs one full cycle over the image. Exactly one image is active
// per cycle; every detector observes the same bytes. A detector failing or
// being disabled never aborts the cycle, and history persistence is
// best-effort: its failure is logged but the result is still returned.
func (m *Manager) Analyze(sess *session.Session, imageBytes []byte, source string) (*dto.AnalysisResult, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// Scratch copy at the session's fixed path, overwritten each cycle.
	if err := os.WriteFile(m.sessions.TempPath(sess.ID), imageBytes, 0644); err != nil {
		m.logger.Warning("Failed to write scratch image for session %s: %v", sess.ID, err)
	}

	var (
		results     []dto.DetectorResult
		weaponRaw   []models.Detection
		unionLabels []string
		storedImage []byte
		storedDets  []models.StoredDetection
	)

	for _, d := range m.detectors {
		result := dto.DetectorResult{Detector: d.Name()}

		if !d.Enabled() {
			result.Disabled = true
			result.Notice = noticeDetectorDisabled
			results = append(results, result)
			continue
		}

		raw, err := d.Detect(imageBytes)
		if err != nil {
			m.logger.Error("Detector %q failed: %v", d.Name(), err)
			result.Notice = noticeDetectionFailed
			results = append(results, result)
			continue
		}

		if d.Name() == m.weaponDetector {
			weaponRaw = raw
		}

		labels := models.FilterLabels(raw, m.threshold)
		result.Labels = labels
		unionLabels = append(unionLabels, labels...)

		for _, det := range raw {
			if det.Confidence >= m.threshold {
				storedDets = append(storedDets, models.StoredDetection{
					Detector:   d.Name(),
					Label:      det.Label,
					Confidence: det.Confidence,
					X:          det.X,
					Y:          det.Y,
					Width:      det.Width,
					Height:     det.Height,
				})
			}
		}

		annotated, err := d.Annotate(imageBytes, raw)
		if err != nil {
			m.logger.Error("Annotation failed for detector %q: %v", d.Name(), err)
		} else if annotated != nil {
			result.AnnotatedImage = base64.StdEncoding.EncodeToString(annotated)
			if storedImage == nil {
				storedImage = annotated
			}
		}

		results = append(results, result)
	}

	alertState := m.evaluator.Evaluate(weaponRaw)

	analysisID := m.persist(sess, storedImage, imageBytes, source, alertState, storedDets)

	m.events.PublishAlert(alertState, source)

	sess.SetCycle(imageBytes, unionLabels, alertState)

	if alertState != models.AlertNone {
		m.logger.Warning("Weapon alert (%s) raised for session %s", alertState, sess.ID)
	}

	return &dto.AnalysisResult{
		AnalysisID:   analysisID,
		Source:       source,
		Detectors:    results,
		Alert:        alertState.String(),
		AlertMessage: alertState.Message(),
	}, nil
}

// persist stores the annotated image and detection rows. Returns the new
// analysis ID, or 0 when persistence failed.
func (m *Manager) persist(sess *session.Session, storedImage, original []byte, source string, alertState models.AlertState, dets []models.StoredDetection) int64 {
	if storedImage == nil {
		// Both detectors disabled or failed: keep the original for the history.
		storedImage = original
	}

	filename, fullpath, size, err := m.imageStore.Save(storedImage, source, alertState)
	if err != nil {
		m.logger.Error("Failed to store analysis image: %v", err)
		return 0
	}

	analysisID, err := m.analysisRepo.Insert(&models.Analysis{
		SessionID: sess.ID,
		Filename:  filename,
		FilePath:  fullpath,
		FileSize:  size,
		Source:    source,
		Alert:     alertState,
		Timestamp: time.Now(),
	})
	if err != nil {
		m.logger.Error("Failed to record analysis: %v", err)
		return 0
	}

	for i := range dets {
		dets[i].AnalysisID = analysisID
	}
	if err := m.detectionRepo.InsertBatch(dets); err != nil {
		m.logger.Error("Failed to record detections: %v", err)
	}

	return analysisID
}
