package logger

import (
	"go.uber.org/zap"
)

const (
	ContextKey                = "logger"
	EventFinishedSuccessfully = "event successfully finished"
)

func NewLogger(isProduction bool) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)

	if isProduction {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
