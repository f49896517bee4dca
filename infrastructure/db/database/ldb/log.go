package ldb

import (
	"github.com/dagcore/dagd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("LVDB")
