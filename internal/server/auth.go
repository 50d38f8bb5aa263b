package server

import (
	"net/http"

	"binaahub/internal"
	"binaahub/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type registerInput struct {
	Email      string     `form:"email"`
	Password   string     `form:"password"`
	GivenName  string     `form:"given_name"`
	FamilyName string     `form:"family_name"`
	Role       types.Role `form:"role"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	var input registerInput
	err = decoder.Decode(&input, r.PostForm)
	if err != nil {
		s.logger.WithError(err).Info("failed to decode register form")
		s.respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	if input.Email == "" || input.Password == "" {
		s.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if input.Role != "" && !input.Role.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown role")
		return
	}

	signUpInput := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(input.Email),
		Password: aws.String(input.Password),
		UserAttributes: []cognitotypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(input.Email)},
			{Name: aws.String("given_name"), Value: aws.String(input.GivenName)},
			{Name: aws.String("family_name"), Value: aws.String(input.FamilyName)},
		},
	}

	resp, err := s.cognitoClient.SignUp(r.Context(), signUpInput)
	if err != nil {
		s.logger.WithError(err).Error("failed to register user with cognito")
		s.respondError(w, http.StatusUnprocessableEntity, "registration failed")
		return
	}

	userID := aws.ToString(resp.UserSub)

	err = s.userRepo.UpsertIdentity(r.Context(), userID, input.Email, input.GivenName, input.FamilyName)
	if err != nil {
		s.logger.WithError(err).Error("failed to persist registered user")
		s.internalServerError(w)
		return
	}

	if input.Role != "" {
		err = s.userRepo.SetRole(r.Context(), userID, input.Role)
		if err != nil {
			s.logger.WithError(err).Error("failed to record user role")
			s.internalServerError(w)
			return
		}
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"user_id":   userID,
		"confirmed": resp.UserConfirmed,
	})
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), input)
	if err != nil {
		// NotAuthorizedException, UserNotConfirmedException, etc.
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.respondError(w, http.StatusUnauthorized, "login failed")
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, map[string]any{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
