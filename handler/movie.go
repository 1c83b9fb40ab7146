package handler

import (
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
)

func CreateMovie(c *fiber.Ctx) error {
	input, _ := c.Locals("input").(model.CreateMovieInput)

	movie := model.Movie{
		Slug:   slug.Make(input.Title),
		Status: constants.MovieActive,
	}
	if err := copier.Copy(&movie, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	if err := database.DB.Create(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CodeInvalidRequest,
			"a movie with this title already exists", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, movie)
}

func GetMovies(c *fiber.Ctx) error {
	filterInput := new(model.FilterMovieInput)
	if err := c.QueryParser(filterInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.CodeInvalidRequest, constants.ERROR_INPUT, err)
	}

	condition := database.DB.Model(&model.Movie{})
	if filterInput.Title != "" {
		condition = condition.Where("title ILIKE ?", "%"+filterInput.Title+"%")
	}
	if filterInput.Genre != "" {
		condition = condition.Where("genre = ?", filterInput.Genre)
	}
	if filterInput.Status != "" {
		condition = condition.Where("status = ?", filterInput.Status)
	} else {
		condition = condition.Where("status = ?", constants.MovieActive)
	}

	var totalCount int64
	condition.Count(&totalCount)

	var movies []model.Movie
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)
	if err := condition.Order("release_date desc").Find(&movies).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       movies,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func GetMovieById(c *fiber.Ctx) error {
	movieId, _ := c.Locals("movieId").(uint)

	var movie model.Movie
	if err := database.DB.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "movie not found", err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

func EditMovie(c *fiber.Ctx) error {
	movieId, _ := c.Locals("movieId").(uint)
	input, _ := c.Locals("input").(model.EditMovieInput)

	var movie model.Movie
	if err := database.DB.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "movie not found", err)
	}

	if err := copier.CopyWithOption(&movie, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}
	if input.Title != nil {
		movie.Slug = slug.Make(*input.Title)
	}

	// Price changes do not touch existing showtimes; their ticket price
	// was frozen at creation.
	if err := database.DB.Save(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

// DeactivateMovie takes a movie off sale without touching its data or
// its showtime history.
func DeactivateMovie(c *fiber.Ctx) error {
	movieId, _ := c.Locals("movieId").(uint)

	var movie model.Movie
	if err := database.DB.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "movie not found", err)
	}

	if err := database.DB.Model(&movie).Update("status", constants.MovieInactive).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, movie)
}

// DeleteMovie deactivates instead of deleting once showtimes reference
// the movie, so historical bookings keep their joins intact.
func DeleteMovie(c *fiber.Ctx) error {
	movieId, _ := c.Locals("movieId").(uint)

	var movie model.Movie
	if err := database.DB.First(&movie, movieId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CodeNotFound, "movie not found", err)
	}

	var showtimeCount int64
	database.DB.Model(&model.Showtime{}).Where("movie_id = ?", movieId).Count(&showtimeCount)
	if showtimeCount > 0 {
		if err := database.DB.Model(&movie).Update("status", constants.MovieInactive).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
		}
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
			"deactivated": true,
			"message":     "movie has showtimes and was deactivated instead of deleted",
		})
	}

	if err := database.DB.Delete(&movie).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CodeSystemError, constants.ERROR_INTERNAL, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
