package handler

import (
	"time"

	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
)

func Register(c *fiber.Ctx) error {
	input, _ := c.Locals("input").(model.RegisterInput)

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	user := model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     constants.RoleCustomer,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeInvalidRequest,
			"email already registered", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func Login(c *fiber.Ctx) error {
	input, _ := c.Locals("input").(model.LoginInput)

	var user model.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized,
			"invalid email or password", nil)
	}
	if !user.IsActive || !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized,
			"invalid email or password", nil)
	}

	accessToken, err := helper.GenerateAccessToken(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	refreshToken, err := helper.GenerateRefreshToken(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"user": user,
		"token": model.TokenData{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	})
}

func Me(c *fiber.Ctx) error {
	claims, ok := helper.CurrentClaims(c)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.CodeUnauthorized, constants.MISSING_TOKEN, nil)
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "user not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, user)
}
