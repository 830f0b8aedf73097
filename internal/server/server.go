package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"revive/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (types.Principal, error)
}

// CognitoAPI is the subset of *cognitoidentityprovider.Client used for
// sign-up and password login.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

type UserRegistry interface {
	Create(ctx context.Context, user *types.User) error
}

type CampaignService interface {
	GetCampaigns(ctx context.Context, filters types.CampaignFilters) ([]*types.CampaignView, error)
	GetCampaign(ctx context.Context, campaignID string) (*types.CampaignDetail, error)
	CreateCampaign(ctx context.Context, input types.CampaignInput, principal types.Principal) (*types.Campaign, error)
	UpdateCampaign(ctx context.Context, campaignID string, patch types.CampaignPatch, principal types.Principal) (*types.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID string, principal types.Principal) error
	ApplyToCampaign(ctx context.Context, campaignID string, principal types.Principal) (*types.Application, error)
	ManageApplication(ctx context.Context, campaignID, volunteerID string, status types.ApplicationStatus, principal types.Principal) (*types.Application, error)
	GetMyCampaigns(ctx context.Context, principal types.Principal) ([]*types.CampaignDetail, error)
	GetMyApplications(ctx context.Context, principal types.Principal) ([]*types.MyApplication, error)
}

type NotificationService interface {
	Inbox(ctx context.Context, principal types.Principal) (*types.NotificationInbox, error)
	MarkRead(ctx context.Context, notificationID string, principal types.Principal) error
	MarkAllRead(ctx context.Context, principal types.Principal) error
	Delete(ctx context.Context, notificationID string, principal types.Principal) error
	ClearRead(ctx context.Context, principal types.Principal) error
}

type MessageService interface {
	Send(ctx context.Context, input types.MessageInput, principal types.Principal) (*types.Message, error)
	Conversation(ctx context.Context, partnerID string, principal types.Principal) ([]*types.Message, error)
	Conversations(ctx context.Context, principal types.Principal) ([]*types.Conversation, error)
	MarkRead(ctx context.Context, messageID string, principal types.Principal) error
	Delete(ctx context.Context, messageID string, principal types.Principal) error
}

type ProfileService interface {
	Me(ctx context.Context, principal types.Principal) (*types.User, error)
	PublicProfile(ctx context.Context, userID string) (*types.PublicProfile, error)
	UpdateProfile(ctx context.Context, update types.ProfileUpdate, principal types.Principal) (*types.User, error)
	UpdateProfileImage(ctx context.Context, imageURL string, principal types.Principal) (string, error)
	VolunteerStats(ctx context.Context, principal types.Principal) (*types.VolunteerStats, error)
	NGOStats(ctx context.Context, principal types.Principal) (*types.NGOStats, error)
}

type ImageStore interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	PublicURL(key string) string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Service struct {
	logger logrus.FieldLogger
	config *types.Config

	cognitoClient CognitoAPI
	auth          Authenticator
	cookie        *securecookie.SecureCookie

	users         UserRegistry
	campaigns     CampaignService
	notifications NotificationService
	messages      MessageService
	profiles      ProfileService
	images        ImageStore
	db            Pinger

	server *http.Server
}

func New(
	config *types.Config,
	logger logrus.FieldLogger,
	cognitoClient CognitoAPI,
	auth Authenticator,
	users UserRegistry,
	campaigns CampaignService,
	notifications NotificationService,
	messages MessageService,
	profiles ProfileService,
	images ImageStore,
	db Pinger,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		auth:          auth,
		cookie:        securecookie.New(hashKey, blockKey),

		users:         users,
		campaigns:     campaigns,
		notifications: notifications,
		messages:      messages,
		profiles:      profiles,
		images:        images,
		db:            db,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)

	r.HandleFunc("/api/campaigns", s.handleGetCampaigns, http.MethodGet)
	r.HandleFunc("/api/campaigns/:id", s.handleGetCampaign, http.MethodGet)
	r.HandleFunc("/api/profile/:id", s.handleGetPublicProfile, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/auth/profile", s.handleGetMe, http.MethodGet)
		r.HandleFunc("/api/auth/logout", s.handleLogout, http.MethodPost)

		r.HandleFunc("/api/campaigns", s.handleCreateCampaign, http.MethodPost)
		r.HandleFunc("/api/campaigns/ngo/my-campaigns", s.handleGetMyCampaigns, http.MethodGet)
		r.HandleFunc("/api/campaigns/volunteer/my-applications", s.handleGetMyApplications, http.MethodGet)
		r.HandleFunc("/api/campaigns/:id", s.handleUpdateCampaign, http.MethodPut)
		r.HandleFunc("/api/campaigns/:id", s.handleDeleteCampaign, http.MethodDelete)
		r.HandleFunc("/api/campaigns/:id/apply", s.handleApplyToCampaign, http.MethodPost)
		r.HandleFunc("/api/campaigns/:id/volunteers/:volunteerId", s.handleManageApplication, http.MethodPut)

		r.HandleFunc("/api/notifications", s.handleGetNotifications, http.MethodGet)
		r.HandleFunc("/api/notifications", s.handleClearReadNotifications, http.MethodDelete)
		r.HandleFunc("/api/notifications/read-all", s.handleMarkAllNotificationsRead, http.MethodPut)
		r.HandleFunc("/api/notifications/:id/read", s.handleMarkNotificationRead, http.MethodPut)
		r.HandleFunc("/api/notifications/:id", s.handleDeleteNotification, http.MethodDelete)

		r.HandleFunc("/api/messages", s.handleSendMessage, http.MethodPost)
		r.HandleFunc("/api/messages", s.handleGetConversations, http.MethodGet)
		r.HandleFunc("/api/messages/:userId", s.handleGetConversation, http.MethodGet)
		r.HandleFunc("/api/messages/:id/read", s.handleMarkMessageRead, http.MethodPut)
		r.HandleFunc("/api/messages/:id", s.handleDeleteMessage, http.MethodDelete)

		r.HandleFunc("/api/profile", s.handleUpdateProfile, http.MethodPut)
		r.HandleFunc("/api/profile/image", s.handleUpdateProfileImage, http.MethodPut)
		r.HandleFunc("/api/profile/stats/volunteer", s.handleGetVolunteerStats, http.MethodGet)
		r.HandleFunc("/api/profile/stats/ngo", s.handleGetNGOStats, http.MethodGet)

		r.HandleFunc("/api/uploads", s.handleUpload, http.MethodPost)
	})
}
