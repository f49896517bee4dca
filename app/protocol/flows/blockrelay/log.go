package blockrelay

import (
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PROT")
