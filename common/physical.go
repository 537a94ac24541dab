package common

// All units are in metric:
// - Speed is in m/s
// - Distance is in meters
// - Time is in seconds
// - Acceleration is in m/s^2

const SpeedOfWalkingMin = 0.23 // or 0.8 km/h or 0.5 mph
const SpeedOfWalkingSlow = 0.5 // or 1.8 km/h or 1.1 mph
const SpeedOfWalkingMean = 1.2 // or 4.3 km/h or 2.7 mph
const SpeedOfWalkingMax = 1.78 // or 6.4 km/h or 4 mph

const SpeedOfRunningMin = 2.23 // or 8 km/h or 5 mph
const SpeedOfRunningMax = 5.56 // or 20 km/h or 12 mph

const SpeedOfCyclingMin = SpeedOfRunningMin
const SpeedOfCyclingMax = 11.76 // or 42 km/h or 26 mph

const SpeedOfDrivingMin = 4.47         // or 16 km/h or 10 mph
const SpeedOfDrivingCityUSMean = 13.9  // or 50 km/h or 31 mph
const SpeedOfDrivingHighwayMin = 20.11 // or 72 km/h or 45 mph
const SpeedOfDrivingHighway = 25.29    // or 91 km/h or 56 mph
const SpeedOfDrivingFreeway = 33.33    // or 120 km/h or 75 mph

const SpeedOfFlyingSlow = 55.56       // or 200 km/h or 124 mph
const SpeedOfCommercialFlight = 250.0 // or 900 km/h

const SpeedOfSound = 343.0

const ElevationOfEverest = 8848.0
const ElevationCommercialFlight = 10668.0
const ElevationOfDeadSea = -430.0
