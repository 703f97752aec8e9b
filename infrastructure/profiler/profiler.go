package profiler

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/logger"
)

// AdaptiveProfiler captures CPU, heap and goroutine profiles when the
// process runs hot instead of profiling continuously. Profiles land in
// profileDir with a timestamp suffix.
type AdaptiveProfiler struct {
	profileDir      string
	logger          *logger.Logger
	cpuThreshold    float64
	memThreshold    float64
	minInterval     time.Duration
	profileDuration time.Duration

	mutex       sync.Mutex
	lastProfile time.Time
	isRunning   bool

	lastCPUTime  time.Time
	lastCPUUsage float64
}

func NewAdaptiveProfiler(profileDir string, logger *logger.Logger) *AdaptiveProfiler {
	return &AdaptiveProfiler{
		profileDir:      profileDir,
		logger:          logger,
		cpuThreshold:    0.70,
		memThreshold:    0.80,
		minInterval:     10 * time.Minute,
		profileDuration: 30 * time.Second,
		lastCPUTime:     time.Now(),
	}
}

func (p *AdaptiveProfiler) Start(ctx context.Context) {
	go p.monitor(ctx)
}

func (p *AdaptiveProfiler) monitor(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.checkAndProfile()
		case <-ctx.Done():
			return
		}
	}
}

func (p *AdaptiveProfiler) checkAndProfile() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isRunning {
		return
	}
	if time.Since(p.lastProfile) < p.minInterval {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memUsage := float64(m.Alloc) / float64(m.Sys)

	cpuUsage := p.getCPUUsage()

	if cpuUsage > p.cpuThreshold || memUsage > p.memThreshold {
		p.logger.Warn("Resource thresholds exceeded, capturing profiles",
			zap.Float64("cpuUsage", cpuUsage),
			zap.Float64("memUsage", memUsage),
		)
		p.isRunning = true
		go p.captureProfiles()
	}
}

// getCPUUsage approximates load from the goroutine count per CPU and
// smooths it with an exponential moving average. Good enough to decide
// when a profile is worth the overhead.
func (p *AdaptiveProfiler) getCPUUsage() float64 {
	numGoroutines := float64(runtime.NumGoroutine())
	numCPU := float64(runtime.NumCPU())

	usage := numGoroutines / (numCPU * 10)
	if usage > 1.0 {
		usage = 1.0
	}

	now := time.Now()
	if now.Sub(p.lastCPUTime).Seconds() > 0 {
		alpha := 0.3
		p.lastCPUUsage = alpha*usage + (1-alpha)*p.lastCPUUsage
		p.lastCPUTime = now
	}

	return p.lastCPUUsage
}

func (p *AdaptiveProfiler) captureProfiles() {
	timestamp := time.Now().Format("20060102-150405")

	if err := os.MkdirAll(p.profileDir, 0755); err != nil {
		p.logger.Error("Failed to create profile directory",
			zap.String("dir", p.profileDir),
			zap.Error(err),
		)
		p.mutex.Lock()
		p.isRunning = false
		p.mutex.Unlock()
		return
	}

	p.captureCPUProfile(timestamp)
	p.captureHeapProfile(timestamp)
	p.captureGoroutineProfile(timestamp)

	p.mutex.Lock()
	p.lastProfile = time.Now()
	p.isRunning = false
	p.mutex.Unlock()
}

func (p *AdaptiveProfiler) captureCPUProfile(timestamp string) {
	path := fmt.Sprintf("%s/cpu-%s.pprof", p.profileDir, timestamp)
	file, err := os.Create(path)
	if err != nil {
		p.logger.Error("Failed to create CPU profile", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	runtime.GC()
	if err := pprof.StartCPUProfile(file); err != nil {
		p.logger.Error("Failed to start CPU profile", zap.Error(err))
		return
	}
	time.Sleep(p.profileDuration)
	pprof.StopCPUProfile()

	p.logger.Info("CPU profile saved", zap.String("path", path))
}

func (p *AdaptiveProfiler) captureHeapProfile(timestamp string) {
	path := fmt.Sprintf("%s/mem-%s.pprof", p.profileDir, timestamp)
	file, err := os.Create(path)
	if err != nil {
		p.logger.Error("Failed to create memory profile", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(file); err != nil {
		p.logger.Error("Failed to write memory profile", zap.Error(err))
		return
	}

	p.logger.Info("Memory profile saved", zap.String("path", path))
}

func (p *AdaptiveProfiler) captureGoroutineProfile(timestamp string) {
	path := fmt.Sprintf("%s/goroutine-%s.pprof", p.profileDir, timestamp)
	file, err := os.Create(path)
	if err != nil {
		p.logger.Error("Failed to create goroutine profile", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	profile := pprof.Lookup("goroutine")
	if profile == nil {
		return
	}
	if err := profile.WriteTo(file, 0); err != nil {
		p.logger.Error("Failed to write goroutine profile", zap.Error(err))
		return
	}

	p.logger.Info("Goroutine profile saved", zap.String("path", path))
}
