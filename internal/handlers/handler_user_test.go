package handlers_test

import (
	"net/http"

	"github.com/SscSPs/erp_lite/internal/apperrors"
	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateUser() {
	suite.users.On("CreateUser", mock.Anything, dto.CreateUserRequest{Name: "Jo"}, suite.userID).
		Return(&domain.User{UserID: "u-2", Name: "Jo"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/users", map[string]any{"name": "Jo"})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.UserResponse
	suite.decode(w, &res)
	suite.Equal("u-2", res.UserID)
}

func (suite *HandlerTestSuite) TestGetMe_UsesTokenSubject() {
	suite.users.On("GetUserByID", mock.Anything, suite.userID).
		Return(&domain.User{UserID: suite.userID, Name: "Me"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/me", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.UserResponse
	suite.decode(w, &res)
	suite.Equal(suite.userID, res.UserID)
}

func (suite *HandlerTestSuite) TestGetUser_NotFound() {
	suite.users.On("GetUserByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/ghost", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
