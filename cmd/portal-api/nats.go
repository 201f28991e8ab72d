// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/infrastructure/messaging"
	"github.com/infracouncil/council-portal-service/internal/infrastructure/store"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/constants"
)

// repositories bundles the key-value backed repositories of the service.
type repositories struct {
	User          *store.NatsUserRepository
	Proposal      *store.NatsProposalRepository
	Meeting       *store.NatsMeetingRepository
	MeetingResult *store.NatsMeetingResultRepository
}

// setupNATS connects to the NATS server. The connection drains on shutdown
// so in-flight handlers finish before the process exits.
func setupNATS(env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(25*time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			slog.With("nats_url", nc.ConnectedUrlRedacted()).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.Info("NATS connection closed")
			gracefulCloseWG.Done()
			// Signal shutdown in case the close was not requested.
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	// The closed handler decrements this once the drain completes.
	gracefulCloseWG.Add(1)

	return natsConn, nil
}

// getKeyValueStores binds the service repositories to their JetStream
// key-value buckets, creating any bucket that does not exist yet.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	buckets := map[string]jetstream.KeyValue{}
	for _, bucket := range []string{
		store.KVStoreNameUsers,
		store.KVStoreNameProposals,
		store.KVStoreNameMeetings,
		store.KVStoreNameMeetingResults,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:  bucket,
			History: 1,
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "bucket", bucket).ErrorContext(ctx, "error binding key-value bucket")
			return nil, err
		}
		buckets[bucket] = kv
	}

	return &repositories{
		User:          store.NewNatsUserRepository(buckets[store.KVStoreNameUsers]),
		Proposal:      store.NewNatsProposalRepository(buckets[store.KVStoreNameProposals]),
		Meeting:       store.NewNatsMeetingRepository(buckets[store.KVStoreNameMeetings]),
		MeetingResult: store.NewNatsMeetingResultRepository(buckets[store.KVStoreNameMeetingResults]),
	}, nil
}

// getObjectStore binds the meeting result image bucket.
func getObjectStore(ctx context.Context, natsConn *nats.Conn, assetBaseURL string) (*store.NatsObjectStore, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	objStore, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket: store.ObjectStoreNameResultImages,
	})
	if err != nil {
		slog.With(logging.ErrKey, err, "bucket", store.ObjectStoreNameResultImages).ErrorContext(ctx, "error binding object store bucket")
		return nil, err
	}

	return store.NewNatsObjectStore(objStore, store.ObjectStoreNameResultImages, assetBaseURL), nil
}

// createNatsSubscriptions subscribes the message handler to the subjects the
// portal serves. All subscriptions share one queue group so that replicas
// split the load.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.UserGetNameSubject,
		models.MeetingGetTitleSubject,
		models.UserDeletedSubject,
		models.ProposalsByProposerSubject,
		models.UpcomingMeetingsSubject,
		models.EligibleMeetingsSubject,
		models.MemberListSubject,
		models.ReviewQueueSubject,
		models.MeetingRosterSubject,
	}

	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, constants.NatsQueueName, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "subject", subject).ErrorContext(ctx, "error creating NATS subscription")
			return err
		}
		slog.With("subject", subject, "queue", constants.NatsQueueName).DebugContext(ctx, "created NATS subscription")
	}

	return nil
}
