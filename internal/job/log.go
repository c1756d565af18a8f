package job

import (
	"github.com/segyhp/reminder-engine/internal/logger"

	"github.com/sirupsen/logrus"
)

func logError(l logrus.FieldLogger, funcName string, fields logrus.Fields, err error) {
	logger.LogError(l, moduleName, funcName, fields, err)
}
