package mq

import (
	"log"

	"bankcore/internal/config"

	"github.com/IBM/sarama"
)

var kafkaProducer sarama.SyncProducer

// InitKafka creates the sync producer used by the outbox sender to
// publish transaction-completed events.
func InitKafka(cfg *config.KafkaConfig) sarama.SyncProducer {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		log.Fatalf("create Kafka producer: %v", err)
	}

	kafkaProducer = producer
	log.Println("Kafka producer ready")
	return producer
}

// SendMessage publishes one message. Key is the transaction id so events
// for the same transaction land in one partition, in order.
func SendMessage(topic, key, value string) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := kafkaProducer.SendMessage(msg)
	return err
}

func CloseKafka() {
	if kafkaProducer != nil {
		kafkaProducer.Close()
	}
}
