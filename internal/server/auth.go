package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"revive/internal"
	"revive/internal/utils"
	"revive/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type registerRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	UserType         string `json:"userType"`
	Location         string `json:"location"`
	ZipCode          string `json:"zipCode"`
	OrganizationName string `json:"organizationName"`
	MissionStatement string `json:"missionStatement"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID       string     `json:"id"`
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	UserType types.Role `json:"userType"`
	Token    string     `json:"token,omitempty"`
}

type session struct {
	accessToken string
	expiresIn   int
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := validateRegisterInput(req)
	role, err := types.ParseRole(req.UserType)
	if err != nil {
		errs["userType"] = "User type must be volunteer or ngo"
	}
	if len(errs) > 0 {
		s.logger.WithField("field_errors", errs).Info("validation errors during registration")
		s.writeError(w, r, types.NewValidationError(errs))
		return
	}

	out, err := s.cognitoClient.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(req.Email),
		Password: aws.String(req.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(req.Email)},
			{Name: aws.String("name"), Value: aws.String(req.FullName)},
		},
	})
	if err != nil {
		s.writeError(w, r, s.mapCognitoSignUpError(err))
		return
	}

	user := &types.User{
		ID:       aws.ToString(out.UserSub),
		FullName: req.FullName,
		Email:    req.Email,
		UserType: role,
		Phone:    utils.TrimmedStringPtr(req.Phone),
		Location: utils.TrimmedStringPtr(req.Location),
		ZipCode:  utils.TrimmedStringPtr(req.ZipCode),
	}
	switch role {
	case types.RoleNGO:
		user.OrganizationName = utils.TrimmedStringPtr(req.OrganizationName)
		user.MissionStatement = utils.TrimmedStringPtr(req.MissionStatement)
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", user.ID).WithField("user_type", role).Info("user registered")

	resp := authResponse{ID: user.ID, FullName: user.FullName, Email: user.Email, UserType: user.UserType}

	// Pools that require confirmation refuse the first login; the account
	// still exists, so the caller just has no token yet.
	sess, err := s.initiateAuth(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Info("post-registration login unavailable")
	} else if err := s.setSessionCookie(w, sess); err == nil {
		resp.Token = sess.accessToken
	}

	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.initiateAuth(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		s.logger.WithError(err).Debug("login failed")
		s.writeError(w, r, types.NewError(types.ErrUnauthenticated, "Invalid email or password"))
		return
	}

	caller, err := s.auth.Authenticate(ctx, sess.accessToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.profiles.Me(ctx, caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.setSessionCookie(w, sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, authResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		UserType: user.UserType,
		Token:    sess.accessToken,
	})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.writeMessage(w, "Logged out")
}

func (s *Service) initiateAuth(ctx context.Context, email, password string) (*session, error) {
	resp, err := s.cognitoClient.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, err
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		return nil, errors.New("no access token in authentication result")
	}

	return &session{
		accessToken: aws.ToString(resp.AuthenticationResult.AccessToken),
		expiresIn:   int(resp.AuthenticationResult.ExpiresIn),
	}, nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, sess *session) error {
	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, sess.accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sess.expiresIn,
		Path:     "/",
	})

	return nil
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(req registerRequest) map[string]string {
	errs := map[string]string{}

	if req.FullName == "" {
		errs["fullName"] = "Full name is required"
	}

	if req.Email == "" {
		errs["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "Enter a valid email address"
	}

	if strings.TrimSpace(req.Phone) == "" {
		errs["phone"] = "Phone is required"
	}

	if req.Password != req.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	hasUpper := hasUpperReg.MatchString(req.Password)
	hasLower := hasLowerReg.MatchString(req.Password)
	hasDigit := hasDigitReg.MatchString(req.Password)
	hasSymbol := hasSymbolReg.MatchString(req.Password)

	if len(req.Password) < 12 || !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol"
	}

	return errs
}

func (s *Service) mapCognitoSignUpError(err error) error {
	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		return types.NewValidationError(map[string]string{
			"password": "Password must include uppercase, lowercase, number, and symbol (min 12)",
		})
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		return types.NewError(types.ErrConflict, "Email already registered")
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return types.NewError(types.ErrValidation, "Some details are invalid. Please review and try again")
	}

	return fmt.Errorf("failed to sign up user: %w", err)
}
