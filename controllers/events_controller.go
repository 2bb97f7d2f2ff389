package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/database"
	"github.com/kwadjoe/campuslinkbackend/dto"
	"github.com/kwadjoe/campuslinkbackend/models"
	"github.com/kwadjoe/campuslinkbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// GET /events — upcoming events by default, ?all=true for everything
func GetEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if c.Query("all") != "true" {
			filter["endsAt"] = bson.M{"$gte": time.Now().UTC()}
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}
		if buildingID := strings.TrimSpace(c.Query("buildingId")); buildingID != "" {
			objID, err := bson.ObjectIDFromHex(buildingID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid buildingId"})
				return
			}
			filter["buildingId"] = objID
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "startsAt", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Event, 0)
		for cursor.Next(ctx) {
			var e models.Event
			if err := cursor.Decode(&e); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, e)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "page": page, "limit": limit})
	}
}

// GET /events/:id
func GetEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusOK, event)
	}
}

// POST /admin/events
func AddEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		var body dto.CreateEventDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !body.EndsAt.After(body.StartsAt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endsAt must be after startsAt"})
			return
		}

		title := strings.TrimSpace(body.Title)
		now := time.Now().UTC()
		doc := models.Event{
			ID:          bson.NewObjectID(),
			Title:       title,
			Slug:        utils.GenerateSlug(title),
			Description: strings.TrimSpace(body.Description),
			Location:    strings.TrimSpace(body.Location),
			StartsAt:    body.StartsAt.UTC(),
			EndsAt:      body.EndsAt.UTC(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if body.BuildingID != "" {
			buildingID, err := bson.ObjectIDFromHex(body.BuildingID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid buildingId"})
				return
			}
			buildingsCol := database.OpenCollection("buildings")
			if err := buildingsCol.FindOne(ctx, bson.M{"_id": buildingID}).Err(); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown building"})
				return
			}
			doc.BuildingID = &buildingID
		}

		if _, err := col.InsertOne(ctx, doc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": doc.ID, "slug": doc.Slug})
	}
}

// PATCH /admin/events/:id
func UpdateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateEventDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
				return
			}
			set["title"] = title
			set["slug"] = utils.GenerateSlug(title)
		}
		if body.Description != nil {
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Location != nil {
			set["location"] = strings.TrimSpace(*body.Location)
		}
		if body.StartsAt != nil {
			set["startsAt"] = body.StartsAt.UTC()
		}
		if body.EndsAt != nil {
			set["endsAt"] = body.EndsAt.UTC()
		}
		if body.BuildingID != nil {
			if *body.BuildingID == "" {
				set["buildingId"] = nil
			} else {
				buildingID, err := bson.ObjectIDFromHex(*body.BuildingID)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid buildingId"})
					return
				}
				set["buildingId"] = buildingID
			}
		}

		res, err := col.UpdateByID(ctx, objID, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/events/:id
func DeleteEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": objID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /admin/events/:id/poster (multipart field "poster")
func UploadEventPoster(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("events")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&event); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		fh, err := c.FormFile("poster")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "poster file required"})
			return
		}
		if _, err := v.ValidateFile(fh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		gcs, bucket, err := utils.NewGCSClient(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer gcs.Close()

		urls, err := utils.UploadImagesToGCS(ctx, gcs, bucket, "events", event.Slug, []*multipart.FileHeader{fh})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateByID(ctx, objID, bson.M{
			"$set": bson.M{"posterUrl": urls[0], "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"posterUrl": urls[0]})
	}
}
