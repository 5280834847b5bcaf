package queries

func Rating(userID, quizID uint) Query {
	return Query{
		SQL:  "SELECT * FROM ratings WHERE user_id = ? AND quiz_id = ?",
		Args: []interface{}{userID, quizID},
	}
}

func UpdateRating(userID, quizID uint, rating int) Query {
	return Query{
		SQL:  "UPDATE ratings SET rating = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND quiz_id = ?",
		Args: []interface{}{rating, userID, quizID},
	}
}

func Favourite(userID, quizID uint) Query {
	return Query{
		SQL:  "SELECT * FROM favourites WHERE user_id = ? AND quiz_id = ?",
		Args: []interface{}{userID, quizID},
	}
}

func DeleteFavourite(userID, quizID uint) Query {
	return Query{
		SQL:  "DELETE FROM favourites WHERE user_id = ? AND quiz_id = ?",
		Args: []interface{}{userID, quizID},
	}
}

// FavouritesForUser lists the quizzes a user favourited, most recent first.
func FavouritesForUser(userID uint) Query {
	return Query{
		SQL: "SELECT quizzes.* FROM favourites JOIN quizzes ON favourites.quiz_id = quizzes.id " +
			"WHERE favourites.user_id = ? ORDER BY favourites.id DESC",
		Args: []interface{}{userID},
	}
}

func AllUsers() Query {
	return Query{SQL: "SELECT * FROM users ORDER BY id"}
}

func UserWithEmail(email string) Query {
	return Query{SQL: "SELECT * FROM users WHERE email = ?", Args: []interface{}{email}}
}

func UserWithID(id uint) Query {
	return Query{SQL: "SELECT * FROM users WHERE id = ?", Args: []interface{}{id}}
}
