package consensus

import (
	"github.com/dagcore/dagd/infrastructure/logger"
	"github.com/dagcore/dagd/util/panics"
)

var log = logger.RegisterSubSystem("CNSS")
var spawn = panics.GoroutineWrapperFunc(log)
