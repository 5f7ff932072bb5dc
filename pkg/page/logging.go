package page

import "github.com/entrhq/pagekit/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("page")
	if err != nil {
		debugLog.Warnf("Failed to initialize page logger, using stderr fallback: %v", err)
	}
}
