package ai

import (
	"visionguard/internal/config"
	"visionguard/internal/logger"
)

// Detector names used across the application.
const (
	DetectorCoco  = "coco"
	DetectorKnife = "knife"
)

// Registry holds the loaded detection models. Models are loaded once at
// startup and treated as read-only afterwards; a model that fails to load
// is kept registered in disabled state so its failure stays visible.
type Registry struct {
	detectors map[string]*Detector
	order     []string
	logger    *logger.Logger
}

// NewRegistry loads the general COCO detector and the dedicated knife
// detector from the configured model paths.
func NewRegistry(cfg *config.Config, log *logger.Logger) *Registry {
	r := &Registry{
		detectors: make(map[string]*Detector),
		logger:    log,
	}

	r.register(NewDetector(DetectorCoco, cfg.CocoModelPath, cfg.CocoConfigPath, CocoLabels(), cfg.DrawFloor, log))
	r.register(NewDetector(DetectorKnife, cfg.KnifeModelPath, cfg.KnifeConfigPath, KnifeLabels(), cfg.DrawFloor, log))

	return r
}

func (r *Registry) register(d *Detector) {
	r.detectors[d.Name()] = d
	r.order = append(r.order, d.Name())
}

// Detector returns the named detector, or nil if it was never registered.
func (r *Registry) Detector(name string) *Detector {
	return r.detectors[name]
}

// Detectors returns all registered detectors in registration order.
func (r *Registry) Detectors() []*Detector {
	out := make([]*Detector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.detectors[name])
	}
	return out
}

// LoadErrors returns the load failure message per disabled detector.
func (r *Registry) LoadErrors() map[string]string {
	errs := make(map[string]string)
	for name, d := range r.detectors {
		if err := d.LoadError(); err != nil {
			errs[name] = err.Error()
		}
	}
	return errs
}

// Close releases all loaded networks.
func (r *Registry) Close() {
	for _, d := range r.detectors {
		d.Close()
	}
}
