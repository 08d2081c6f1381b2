package repository

import (
	"context"
	"errors"

	"TradeLens/internal/domain/models"
	domrepo "TradeLens/internal/domain/repository"
	pkgkafka "TradeLens/pkg/kafka"
)

// KafkaPublisher emits every newly locked prediction keyed by
// "instrument:horizon" so one slot always lands on one partition.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.PredictionPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishPrediction(ctx context.Context, rec *models.PredictionRecord) error {
	key := rec.Instrument + ":" + string(rec.Horizon)
	return p.producer.Publish(ctx, p.topic, []byte(key), rec)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// MultiPublisher fans a prediction out to several sinks and joins their errors.
type MultiPublisher []domrepo.PredictionPublisher

var _ domrepo.PredictionPublisher = MultiPublisher(nil)

func (m MultiPublisher) PublishPrediction(ctx context.Context, rec *models.PredictionRecord) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishPrediction(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
