package pip

import (
	"regexp"
	"strconv"
	"strings"
)

// EventType classifies a parsed pip output line.
type EventType string

const (
	EventCollecting       EventType = "collecting"
	EventDownloadStart    EventType = "download_start"
	EventProgress         EventType = "progress"
	EventInstalling       EventType = "installing"
	EventSuccess          EventType = "success"
	EventAlreadySatisfied EventType = "already_satisfied"
	EventBuilding         EventType = "building"
	EventRunningSetup     EventType = "running_setup"
	EventOutput           EventType = "output"
	EventError            EventType = "error"
)

// ProgressEvent is one structured event derived from a pip output line.
type ProgressEvent struct {
	Type         EventType
	Package      string
	Percentage   int
	SizeMB       float64
	SizeLabel    string
	DownloadedMB float64
	SpeedMBps    float64
	ETA          string
	Line         string
	Message      string
}

var (
	collectingPattern = regexp.MustCompile(`Collecting\s+(\S+)`)
	downloadPattern   = regexp.MustCompile(`Downloading\s+\S+\s+\(([\d.]+)\s*([kKMGT]?B)\)`)
	progressPattern   = regexp.MustCompile(`(\d+)%\s+\|\s+([\d.]+)\s*([kKMGT]?B)\s+\|\s+([\d.]+)\s*([kKMGT]?B)/s\s+\|\s+([\d:]+)`)
	installedPattern  = regexp.MustCompile(`Successfully\s+installed\s+(\S+)`)
)

// ParseOutputLine scans one pip output line against the known progress
// patterns. The second return value is false when the line matches none of
// them.
func ParseOutputLine(line string) (ProgressEvent, bool) {
	if m := collectingPattern.FindStringSubmatch(line); m != nil {
		return ProgressEvent{Type: EventCollecting, Package: m[1], Line: line}, true
	}

	if m := downloadPattern.FindStringSubmatch(line); m != nil {
		size, _ := strconv.ParseFloat(m[1], 64)
		unit := strings.ToUpper(m[2])
		return ProgressEvent{
			Type:      EventDownloadStart,
			SizeMB:    toMegabytes(size, unit),
			SizeLabel: m[1] + " " + unit,
			Line:      line,
		}, true
	}

	if m := progressPattern.FindStringSubmatch(line); m != nil {
		pct, _ := strconv.Atoi(m[1])
		downloaded, _ := strconv.ParseFloat(m[2], 64)
		speed, _ := strconv.ParseFloat(m[4], 64)
		return ProgressEvent{
			Type:         EventProgress,
			Percentage:   pct,
			DownloadedMB: toMegabytes(downloaded, strings.ToUpper(m[3])),
			SpeedMBps:    toMegabytes(speed, strings.ToUpper(m[5])),
			ETA:          m[6],
			Line:         line,
		}, true
	}

	if strings.Contains(line, "Installing collected packages") {
		return ProgressEvent{Type: EventInstalling, Line: line}, true
	}

	if m := installedPattern.FindStringSubmatch(line); m != nil {
		return ProgressEvent{Type: EventSuccess, Package: m[1], Line: line}, true
	}

	if strings.Contains(line, "Requirement already satisfied") {
		return ProgressEvent{Type: EventAlreadySatisfied, Line: line}, true
	}

	if strings.Contains(line, "Building wheels") {
		return ProgressEvent{Type: EventBuilding, Line: line}, true
	}

	if strings.Contains(line, "Running setup.py") {
		return ProgressEvent{Type: EventRunningSetup, Line: line}, true
	}

	return ProgressEvent{}, false
}

func toMegabytes(value float64, unit string) float64 {
	switch unit {
	case "KB":
		return value / 1024
	case "MB":
		return value
	case "GB":
		return value * 1024
	case "TB":
		return value * 1024 * 1024
	default: // bytes
		return value / (1024 * 1024)
	}
}
