package controllers

import (
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

var buildingCategories = map[string]bool{
	string(models.BuildingAcademic):  true,
	string(models.BuildingDining):    true,
	string(models.BuildingResidence): true,
	string(models.BuildingLibrary):   true,
	string(models.BuildingAthletics): true,
	string(models.BuildingOther):     true,
}

// GET /buildings
func GetBuildings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

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
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}
		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			filter["category"] = cat
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "name", Value: 1}})

		cursor, err := col.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Building, 0)
		for cursor.Next(ctx) {
			var b models.Building
			if err := cursor.Decode(&b); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			items = append(items, b)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "page": page, "limit": limit})
	}
}

// GET /buildings/:id and GET /buildings/slug/:slug
func GetBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

		var filter bson.M
		if slug := c.Param("slug"); slug != "" {
			filter = bson.M{"slug": slug}
		} else {
			objID, err := bson.ObjectIDFromHex(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			filter = bson.M{"_id": objID}
		}

		var building models.Building
		if err := col.FindOne(ctx, filter).Decode(&building); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}

		c.JSON(http.StatusOK, building)
	}
}

// POST /admin/buildings
func AddBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

		var body dto.CreateBuildingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		category := strings.ToLower(strings.TrimSpace(body.Category))
		if !buildingCategories[category] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category", "field": "category"})
			return
		}

		name := strings.TrimSpace(body.Name)
		now := time.Now().UTC()
		doc := models.Building{
			ID:          bson.NewObjectID(),
			Name:        name,
			Slug:        utils.GenerateSlug(name),
			Category:    models.BuildingCategory(category),
			Description: strings.TrimSpace(body.Description),
			Latitude:    body.Latitude,
			Longitude:   body.Longitude,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := col.InsertOne(ctx, doc); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists", "field": "slug"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": doc.ID, "slug": doc.Slug})
	}
}

// PATCH /admin/buildings/:id
func UpdateBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var body dto.UpdateBuildingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updatedAt": time.Now().UTC()}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			set["name"] = name
			set["slug"] = utils.GenerateSlug(name)
		}
		if body.Category != nil {
			category := strings.ToLower(strings.TrimSpace(*body.Category))
			if !buildingCategories[category] {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category", "field": "category"})
				return
			}
			set["category"] = category
		}
		if body.Description != nil {
			set["description"] = strings.TrimSpace(*body.Description)
		}
		if body.Latitude != nil {
			set["latitude"] = *body.Latitude
		}
		if body.Longitude != nil {
			set["longitude"] = *body.Longitude
		}

		res, err := col.UpdateByID(ctx, objID, bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DELETE /admin/buildings/:id
func DeleteBuilding() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var building models.Building
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&building); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// best effort: orphaned images are cleaned up out of band if this fails
		if len(building.ImageURLs) > 0 {
			if gcs, bucket, err := utils.NewGCSClient(ctx); err == nil {
				defer gcs.Close()
				objects := make([]string, 0, len(building.ImageURLs))
				for _, u := range building.ImageURLs {
					if name, err := utils.ObjectNameFromGCSPublicURL(bucket, u); err == nil {
						objects = append(objects, name)
					}
				}
				_ = utils.DeleteGCSObjects(ctx, gcs, bucket, objects)
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /admin/buildings/:id/images (multipart field "images")
func UploadBuildingImages(v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		col := database.OpenCollection("buildings")

		objID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var building models.Building
		if err := col.FindOne(ctx, bson.M{"_id": objID}).Decode(&building); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		}
		files := form.File["images"]
		if len(files) < 1 || len(files) > 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "images must be 1 to 4"})
			return
		}
		for _, fh := range files {
			if _, err := v.ValidateFile(fh); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "file": fh.Filename})
				return
			}
		}

		gcs, bucket, err := utils.NewGCSClient(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer gcs.Close()

		urls, err := utils.UploadImagesToGCS(ctx, gcs, bucket, "buildings", building.Slug, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_, err = col.UpdateByID(ctx, objID, bson.M{
			"$push": bson.M{"imageUrls": bson.M{"$each": urls}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"imageUrls": urls})
	}
}
