package logger

import "time"

// LogAndMeasureExecutionTime logs functionName's start and returns a
// function to defer that logs its elapsed time
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	log.Debugf("%s start", functionName)
	start := time.Now()
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}
