package consensusstatemanager

import (
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CSSM")
